package transcription

import "context"

// Transcriber turns an audio file into plain text. The service treats the
// provider as opaque; only the text matters downstream.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}
