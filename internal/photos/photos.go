// Package photos stores uploaded student photos on local disk and hands
// back the public URL they are served under.
package photos

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store writes photos under a single uploads directory.
type Store struct {
	Dir       string
	PublicURL string
}

// New creates a photo store. PublicURL is the path prefix the directory is
// served under, e.g. "/uploads".
func New(dir, publicURL string) *Store {
	return &Store{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/")}
}

// Save writes data under a unique filename derived from the original name
// and returns the public URL. The uploads directory is created lazily.
func (s *Store) Save(data []byte, originalName string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return s.PublicURL + "/" + name, nil
}
