package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AudioStore keeps uploaded recordings on local disk under a dated directory
// structure: audio/2025/07/27/20250727_143022_<id>.wav
type AudioStore struct {
	baseDir string
}

// NewAudioStore creates a local audio file store.
func NewAudioStore(baseDir string) *AudioStore {
	return &AudioStore{baseDir: baseDir}
}

// SaveAudio moves a temp audio file into the dated archive and returns the
// stored path, used as the record's audioFileUrl.
func (as *AudioStore) SaveAudio(recordID, srcPath string) (string, error) {
	now := time.Now()
	dateDir := filepath.Join(as.baseDir,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fmt.Sprintf("%02d", now.Day()))

	if err := os.MkdirAll(dateDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create date directory: %w", err)
	}

	timestamp := now.Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s%s", timestamp, sanitizeFilename(recordID), filepath.Ext(srcPath))
	dstPath := filepath.Join(dateDir, filename)

	src, err := os.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create archived audio file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to archive audio file: %w", err)
	}

	return dstPath, nil
}

// sanitizeFilename strips path separators and characters unsafe in filenames.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer(
		"/", "_", "\\", "_", ":", "_", "*", "_", "?", "_",
		"\"", "_", "<", "_", ">", "_", "|", "_",
	)
	name = replacer.Replace(name)
	if len(name) > 100 {
		name = name[:100]
	}
	return name
}
