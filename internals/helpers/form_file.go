package helper

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MaxAudioBytes caps recorded answers and chat voice notes.
const MaxAudioBytes = 10 << 20

// MaxImageBytes caps profile photos before re-encoding.
const MaxImageBytes = 5 << 20

// UploadedFile is a multipart file read fully into memory.
type UploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f UploadedFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}

// ReadFormFile loads the multipart field into memory. A missing field yields a
// 400 *fiber.Error, an oversized one a 413.
func ReadFormFile(c *fiber.Ctx, field string, maxBytes int64) (*UploadedFile, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("missing file field %q", field))
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "file too large")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot open uploaded file")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "cannot read uploaded file")
	}
	if len(data) == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "uploaded file is empty")
	}
	return &UploadedFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
