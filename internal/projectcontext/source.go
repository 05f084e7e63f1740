package projectcontext

import (
	"context"
	"fmt"
	"os"
)

// DirSource gathers context from a project directory.
type DirSource struct {
	Dir string
}

func (s DirSource) Gather(ctx context.Context) (string, error) {
	b, err := Gather(ctx, s.Dir)
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// FileSource uses the contents of a file verbatim.
type FileSource struct {
	Path string
}

func (s FileSource) Gather(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return "", fmt.Errorf("failed to read context file: %w", err)
	}
	return string(data), nil
}

// Static is a fixed context string.
type Static string

func (s Static) Gather(ctx context.Context) (string, error) {
	return string(s), nil
}
