package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	pages "go-currency-pages"
)

// TemplateStore provides the page template as a byte stream. The stream is
// consumed element by element by the transformer, never loaded wholesale.
type TemplateStore interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileStore serves the template from a file on disk.
type FileStore struct {
	Path string
}

func (s FileStore) Open(ctx context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("template %v: %w", s.Path, pages.ErrTemplateUnavailable)
		}
		return nil, fmt.Errorf("template %v: %w", s.Path, err)
	}
	return f, nil
}
