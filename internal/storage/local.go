package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"
)

const maxFileSize = 10 * 1024 * 1024

var allowedContentTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// LocalStorage persists uploaded voucher files on the local filesystem.
// Files are grouped under subDir/YYYY/MM so a year of vouchers does not pile
// up in a single directory.
type LocalStorage struct {
	basePath string
}

// NewLocalStorage creates the base directory if missing.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{basePath: basePath}, nil
}

// Upload streams a multipart file to disk and returns the path relative to
// the storage root. The stored name is random; the original name only
// supplies the extension.
func (s *LocalStorage) Upload(file multipart.File, header *multipart.FileHeader, subDir string) (string, error) {
	dir, err := s.monthDir(subDir)
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(dir, randomName(filepath.Ext(header.Filename)))
	dst, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(filePath)
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return relPath, nil
}

// UploadFromBytes writes processed file content to disk and returns the path
// relative to the storage root.
func (s *LocalStorage) UploadFromBytes(data []byte, filename string, subDir string) (string, error) {
	dir, err := s.monthDir(subDir)
	if err != nil {
		return "", err
	}

	filePath := filepath.Join(dir, randomName(filepath.Ext(filename)))
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	relPath, _ := filepath.Rel(s.basePath, filePath)
	return relPath, nil
}

func (s *LocalStorage) monthDir(subDir string) (string, error) {
	dir := filepath.Join(s.basePath, subDir, time.Now().Format("2006/01"))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}
	return dir, nil
}

func randomName(ext string) string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b) + ext
}

// MaxFileSize returns the upload size limit in bytes.
func MaxFileSize() int64 {
	return maxFileSize
}

// IsValidContentType reports whether uploads of the given MIME type are
// accepted as vouchers.
func IsValidContentType(contentType string) bool {
	return allowedContentTypes[contentType]
}
