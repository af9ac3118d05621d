package utils

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"cursos/config"

	"github.com/google/uuid"
)

// SaveUploadedFile stores an upload (payment proof screenshot, PDF) under
// the configured upload directory and returns the stored path.
func SaveUploadedFile(file *multipart.FileHeader, subDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	destDir := filepath.Join(config.AppConfig.UploadDir, subDir)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	// Random filename, uploads must not collide or be guessable
	ext := filepath.Ext(file.Filename)
	newFilename := uuid.NewString() + ext
	filePath := filepath.Join(destDir, newFilename)

	dst, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return filePath, nil
}

// GetFileURL maps a stored path to the public URL it is served from
func GetFileURL(filePath string) string {
	if filePath == "" {
		return ""
	}
	rel, err := filepath.Rel(config.AppConfig.UploadDir, filePath)
	if err != nil {
		rel = filePath
	}
	return "/uploads/" + filepath.ToSlash(rel)
}
