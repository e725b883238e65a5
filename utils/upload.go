package utils

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// ErrNotImage signals that an uploaded payload is not a decodable image.
var ErrNotImage = errors.New("upload: not a decodable image")

const maxImageSize = 10 * 1024 * 1024

// SaveImage validates that the uploaded payload decodes as an image and
// stores it under baseDir/<year>/<month>/<day>/ with a unique name.
// It returns the public URL path of the stored file.
func SaveImage(header *multipart.FileHeader, baseDir string) (string, error) {
	if header.Size > maxImageSize {
		return "", ErrNotImage
	}

	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return "", ErrNotImage
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	now := time.Now()
	dir := filepath.Join(baseDir, now.Format("2006"), now.Format("01"), now.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("%s%s", uuid.NewString(), filepath.Ext(header.Filename))
	dstPath := filepath.Join(dir, name)

	out, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, io.LimitReader(file, maxImageSize)); err != nil {
		_ = os.Remove(dstPath)
		return "", err
	}

	return "/" + filepath.ToSlash(dstPath), nil
}
