package speech

import (
	"context"
	"io"
)

// The transducers are external collaborators: the dialogue core only needs
// text in and text out. Concrete cloud implementations plug in behind these
// interfaces.

// Transcript is the STT result for one utterance.
type Transcript struct {
	Text       string  `json:"text"`
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// Audio is a synthesized reply.
type Audio struct {
	Data   []byte `json:"-"`
	Format string `json:"format"`
}

// Transcriber converts spoken audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, format, language string) (*Transcript, error)
}

// Synthesizer converts a reply into spoken audio using the given voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) (*Audio, error)
}
