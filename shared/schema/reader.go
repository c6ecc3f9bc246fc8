package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dracory/tdbdesk/shared/constants"
)

// MaxFileSize caps how much of a schema file is read into memory.
const MaxFileSize = 4 << 20

var (
	ErrUnsupportedExtension = errors.New("schema file must have the " + constants.SchemaFileExtension + " extension")
	ErrFileTooLarge         = errors.New("schema file is too large")
)

type readResult struct {
	text string
	err  error
}

// ReadFile reads a whole schema file into memory. Every call reads on its
// own goroutine so a cancelled context returns immediately; the read itself
// is left to finish in the background.
func ReadFile(ctx context.Context, filename string, src io.Reader) (string, error) {
	if !strings.EqualFold(filepath.Ext(filename), constants.SchemaFileExtension) {
		return "", ErrUnsupportedExtension
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	done := make(chan readResult, 1)
	go func() {
		b, err := io.ReadAll(io.LimitReader(src, MaxFileSize+1))
		if err != nil {
			done <- readResult{err: fmt.Errorf("read schema file: %w", err)}
			return
		}
		if len(b) > MaxFileSize {
			done <- readResult{err: ErrFileTooLarge}
			return
		}
		done <- readResult{text: string(b)}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		return res.text, res.err
	}
}
