package ingestion

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// ExtractText returns the plain text of a policy document. Plain text and
// markdown are read directly; PDFs go through the text-layer extractor.
func ExtractText(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".txt", ".md":
		b, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(b), nil
	case ".pdf":
		return extractTextFromPDF(path)
	default:
		return "", errors.New("unsupported document type: " + ext)
	}
}
