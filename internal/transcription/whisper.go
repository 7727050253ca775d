package transcription

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
)

// WhisperTranscriber shells out to Python's OpenAI Whisper.
type WhisperTranscriber struct {
	modelName string
	tempDir   string
	mu        sync.Mutex // one transcription at a time
}

var _ Transcriber = (*WhisperTranscriber)(nil)

// NewWhisperTranscriber creates a transcriber for the given model name
// (tiny/base/small/medium/large). Whisper availability is verified on first
// use, not here.
func NewWhisperTranscriber(modelName, tempDir string) *WhisperTranscriber {
	if modelName == "" {
		modelName = "small"
	}
	return &WhisperTranscriber{modelName: modelName, tempDir: tempDir}
}

// Transcribe runs whisper on the audio file and returns the trimmed text.
func (wt *WhisperTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	wt.mu.Lock()
	defer wt.mu.Unlock()

	outDir := filepath.Join(wt.tempDir, "whisper_output")
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create whisper output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	absAudioPath, err := filepath.Abs(audioPath)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	cmd := exec.CommandContext(ctx, "python", "-m", "whisper",
		absAudioPath,
		"--model", wt.modelName,
		"--output_dir", outDir,
		"--output_format", "txt",
		"--language", "en",
		"--fp16", "False", // CPU compatibility
	)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("whisper transcription failed: %w\nOutput: %s", err, string(output))
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	txtPath := filepath.Join(outDir, baseName+".txt")

	text, err := os.ReadFile(txtPath)
	if err != nil {
		return "", fmt.Errorf("failed to read whisper output: %w", err)
	}

	return strings.TrimSpace(string(text)), nil
}
