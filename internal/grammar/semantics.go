package grammar

import (
	"regexp"
	"strconv"

	"github.com/codebuildervaibhav/voice-meeting-log/internal/types"
)

// Field limits
const (
	nameMinLen     = 2
	nameMaxLen     = 100
	locationMinLen = 2
	locationMaxLen = 200
	groupMax       = 999
)

var (
	nameCharsRe     = regexp.MustCompile(`^[a-zA-Z\s\-.']+$`)
	locationCharsRe = regexp.MustCompile(`^[a-zA-Z0-9\s\-.,']+$`)
)

// CheckFields runs the four semantic checks on an extracted message. All checks
// are evaluated, not short-circuited, so every problem is reported in one pass.
// The returned order is fixed: speaker, group, person, location.
func CheckFields(msg *types.VoiceMessage) []string {
	var errs []string

	if !validName(msg.SpeakerName) {
		errs = append(errs, "Invalid speaker name")
	}
	if !validGroup(msg.GroupNumber) {
		errs = append(errs, "Group number must be a valid number")
	}
	if !validName(msg.PersonMet) {
		errs = append(errs, "Invalid person name")
	}
	if !validLocation(msg.Location) {
		errs = append(errs, "Invalid location")
	}

	return errs
}

func validName(s string) bool {
	if len(s) < nameMinLen || len(s) > nameMaxLen {
		return false
	}
	return nameCharsRe.MatchString(s)
}

// validGroup parses the group number for validation only; the field is stored
// as its original string form.
func validGroup(s string) bool {
	n, err := strconv.Atoi(s)
	if err != nil {
		return false
	}
	return n > 0 && n <= groupMax
}

func validLocation(s string) bool {
	if len(s) < locationMinLen || len(s) > locationMaxLen {
		return false
	}
	return locationCharsRe.MatchString(s)
}
