// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for all sound file encoders
package encode

import (
	"errors"

	"github.com/sndrelay/sndrelay-go/pkg/audio"
)

// ErrUnsupportedFormat indicates a format the encoder cannot write
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Encoder writes normalized interleaved float32 samples to a sound file
type Encoder interface {
	// Format describes the file being written
	Format() audio.Format

	// Write appends whole frames from samples
	Write(samples []float32) error

	// Close finalizes headers. The underlying writer is not closed.
	Close() error
}
