// Package upload stores request-supplied images on disk under random
// filenames and hands back the public path recorded on the entity.
package upload

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// URLPrefix is the public path images are served under
const URLPrefix = "/uploads"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Store saves uploaded images into dir
type Store struct {
	dir string
}

// NewStore creates the upload directory if needed
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the on-disk directory backing the store
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a generated name and returns the
// public path to record on the owning entity.
func (s *Store) Save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("unsupported image type %q", ext)
	}

	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(s.dir, name)); err != nil {
		return "", err
	}
	return URLPrefix + "/" + name, nil
}

// FilePath resolves a stored public path back to the on-disk location.
// Paths outside the store are rejected.
func (s *Store) FilePath(publicPath string) (string, error) {
	name := strings.TrimPrefix(publicPath, URLPrefix+"/")
	if name == publicPath || strings.Contains(name, "/") || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid upload path %q", publicPath)
	}
	return filepath.Join(s.dir, name), nil
}
