package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract extracts text from images with the local tesseract engine.
type Tesseract struct {
	language string
}

func NewTesseract(language string) *Tesseract {
	if language == "" {
		language = "eng"
	}
	return &Tesseract{language: language}
}

// Extract runs OCR over the image stored at path. A fresh client is used per
// call because a gosseract client is not safe for concurrent use.
func (t *Tesseract) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.language); err != nil {
		return "", fmt.Errorf("set ocr language %q: %w", t.language, err)
	}
	if err := client.SetImage(path); err != nil {
		return "", fmt.Errorf("load image %s: %w", path, err)
	}
	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognise %s: %w", path, err)
	}
	return text, nil
}
