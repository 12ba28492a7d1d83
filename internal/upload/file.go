package upload

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/fitadmin/internal/types"
)

// LoadFile reads a file from disk. The content type comes from the
// extension, falling back to content sniffing.
func LoadFile(path string) (types.UploadFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.UploadFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return types.UploadFile{
		Name:        filepath.Base(path),
		ContentType: ContentType(path, data),
		Data:        data,
	}, nil
}

// LoadFiles reads several files, stopping at the first read error
func LoadFiles(paths []string) ([]types.UploadFile, error) {
	files := make([]types.UploadFile, 0, len(paths))
	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// ContentType returns the media type of a file without parameters
func ContentType(path string, data []byte) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		return mediaType
	}
	return ct
}
