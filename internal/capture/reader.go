package capture

import (
	"errors"

	"github.com/atotto/clipboard"
)

// Reader returns the current clipboard text.
type Reader interface {
	ReadAll() (string, error)
}

// SystemReader reads the platform clipboard.
type SystemReader struct{}

// ReadAll implements Reader.
func (SystemReader) ReadAll() (string, error) {
	return clipboard.ReadAll()
}

// ErrUnsupported is returned by Probe when no clipboard utility is
// available on this system.
var ErrUnsupported = errors.New("capture: clipboard not supported on this system")

// Probe reports whether the platform clipboard can be used at all.
func Probe() error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return nil
}
