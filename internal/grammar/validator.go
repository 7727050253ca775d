package grammar

import (
	"regexp"
	"strings"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

// Template is the fixed sentence a transcription must satisfy.
const Template = "My name is [your name] and I belong to group [group number] and today I met [person name] at [location]"

// Anchored both ends: no partial-sentence matches, nothing after the optional
// trailing period. Name and person spans are non-greedy so "and" inside the
// keywords is consumed by the template, not the captures.
var templateRe = regexp.MustCompile(
	`(?i)^my name is (.+?) and i belong to group (.+?) and today i met (.+?) at (.+?)\.?$`)

// Validate matches text against the fixed template and runs the semantic field
// checks on a match. Empty or whitespace-only input yields a neutral result
// (invalid, empty message, no data) so callers can tell "nothing said yet"
// apart from a malformed sentence.
func Validate(text string) types.ValidationResult {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return types.ValidationResult{IsValid: false, Message: ""}
	}

	m := templateRe.FindStringSubmatch(trimmed)
	if m == nil {
		return types.ValidationResult{
			IsValid: false,
			Message: "Invalid format. Please use: " + Template,
		}
	}

	msg := &types.VoiceMessage{
		SpeakerName: strings.TrimSpace(m[1]),
		GroupNumber: strings.TrimSpace(m[2]),
		PersonMet:   strings.TrimSpace(m[3]),
		Location:    strings.TrimSpace(m[4]),
	}

	if errs := CheckFields(msg); len(errs) > 0 {
		// Data is still returned so the caller can show what was heard.
		return types.ValidationResult{
			IsValid:       false,
			Message:       "Format is correct but data has issues: " + strings.Join(errs, ", "),
			ExtractedData: msg,
			Errors:        errs,
			Confidence:    0.5,
		}
	}

	return types.ValidationResult{
		IsValid:       true,
		Message:       "Voice message validated successfully",
		ExtractedData: msg,
		Confidence:    1.0,
	}
}
