package pipeline

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// FileReader reads source files for the Open stage.
type FileReader interface {
	ReadFile(path string) (string, error)
}

// OSFileReader reads files from the file system. Files must be valid UTF-8.
type OSFileReader struct{}

// ReadFile implements FileReader.
func (OSFileReader) ReadFile(path string) (string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(bytes) {
		return "", fmt.Errorf("%s: source is not valid UTF-8", path)
	}
	return string(bytes), nil
}
