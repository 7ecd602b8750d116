package marketapi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/OussamaHarmal/application-mobile-with-admin-pannel/internal/models"
)

const imageField = "image"

// multipartBody buffers fields and the image file into a form body. The file
// is closed before returning whether or not the body could be built.
func multipartBody(fields []models.FormField, imagePath string) (io.Reader, string, error) {
	file, err := os.Open(imagePath)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", f.Name, err)
		}
	}

	part, err := w.CreateFormFile(imageField, filepath.Base(imagePath))
	if err != nil {
		return nil, "", fmt.Errorf("create image part: %w", err)
	}

	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}
