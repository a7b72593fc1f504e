package pipeline

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/docgraph/pkg/errors"
)

// Stdin is the source name that reads the document from standard input.
const Stdin = "-"

// IsURL reports whether src names a remote document.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Read loads a document from a file path, an http(s) URL, or stdin when src
// is "-". Documents larger than maxSize are rejected without being read in
// full; zero means errors.DefaultMaxDocumentSize.
func (r *Runner) Read(ctx context.Context, src string, stdin io.Reader, maxSize int64, refresh bool) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = errors.DefaultMaxDocumentSize
	}

	switch {
	case src == Stdin:
		if stdin == nil {
			stdin = os.Stdin
		}
		return readLimited(stdin, maxSize)

	case IsURL(src):
		if r.Fetcher == nil {
			return nil, errors.New(errors.ErrCodeUnsupported, "no fetcher configured for %s", src)
		}
		return r.Fetcher.FetchLimit(ctx, src, refresh, maxSize)
	}

	if err := errors.ValidatePath(src); err != nil {
		return nil, err
	}
	info, err := os.Stat(src)
	if os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "file not found: %s", src)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "stat %s", src)
	}
	if info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "%s is a directory", src)
	}
	if err := errors.ValidateDocumentSize(info.Size(), maxSize); err != nil {
		return nil, err
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", src)
	}
	defer f.Close()
	return readLimited(f, maxSize)
}

func readLimited(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read document")
	}
	if err := errors.ValidateDocumentSize(int64(len(data)), maxSize); err != nil {
		return nil, err
	}
	return data, nil
}
