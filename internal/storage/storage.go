// Package storage persists uploaded files (payment evidence, agreement
// documents) on local disk.
package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/enviohq/envio-backend/internal"
)

// allowedTypes maps sniffed content types to the extension stored files get.
var allowedTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"application/pdf": ".pdf",
}

type FileStore interface {
	Save(r io.Reader) (string, error)
}

type LocalStore struct {
	dir     string
	maxSize int64
}

func NewLocalStore(cfg internal.StorageConfig) (*LocalStore, error) {
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: cfg.UploadDir, maxSize: cfg.MaxSizeBytes}, nil
}

// Save sniffs the content type, enforces the size limit and writes the file
// under a random name. It returns the stored file name.
func (s *LocalStore) Save(r io.Reader) (string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	contentType := strings.Split(http.DetectContentType(head), ";")[0]
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", internal.NewValidationError(
			fmt.Sprintf("file type %s is not allowed", contentType),
			internal.ErrCodeValidationFailed)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	// read one byte past the limit so an oversized upload is detectable
	limited := io.LimitReader(io.MultiReader(bytes.NewReader(head), r), s.maxSize+1)
	written, err := io.Copy(f, limited)
	if err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write file: %w", err)
	}
	if written > s.maxSize {
		os.Remove(path)
		return "", internal.NewValidationError("file exceeds maximum size", internal.ErrCodeValidationFailed)
	}

	return name, nil
}
