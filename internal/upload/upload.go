// Package upload stores multipart image uploads on local disk and
// hands back the public URL reference that the rest of the system
// treats as an opaque string.
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

var allowedExtensions = map[string]bool{
	".bmp":  true,
	".gif":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".webp": true,
}

// Saver writes uploaded images under Dir and builds URLs from BaseURL.
type Saver struct {
	Dir     string
	BaseURL string
}

// SaveImage stores the named form file and returns its URL reference.
// Returns ("", nil) when the field is absent, uploads are optional.
func (s *Saver) SaveImage(c *gin.Context, field string) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", nil
	}
	return s.save(c, file)
}

func (s *Saver) save(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("only image files are accepted")
	}

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(s.Dir, name)); err != nil {
		return "", fmt.Errorf("save uploaded file: %w", err)
	}

	return s.BaseURL + "/public/images/" + name, nil
}
