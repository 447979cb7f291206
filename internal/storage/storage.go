// Package storage keeps uploaded images on disk or in an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// DefaultMaxSize is the upload limit used when none is configured.
const DefaultMaxSize int64 = 5 << 20

var (
	// ErrFileTooLarge is returned when an upload exceeds the size limit.
	ErrFileTooLarge = errors.New("file too large")
	// ErrUnsupportedType is returned when an upload is not an image.
	ErrUnsupportedType = errors.New("only image uploads are allowed")
)

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, field string, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, url string) error
}

// imageExtensions maps every sniffed image type to the extension stored
// files get. The client's file name never picks the extension; static
// serving derives Content-Type from it.
var imageExtensions = map[string]string{
	"image/avif":   ".avif",
	"image/bmp":    ".bmp",
	"image/gif":    ".gif",
	"image/jpeg":   ".jpg",
	"image/png":    ".png",
	"image/webp":   ".webp",
	"image/x-icon": ".ico",
}

// upload is a validated, fully read image.
type upload struct {
	name        string
	contentType string
	data        []byte
}

// readImage enforces the size limit, sniffs the content type and derives a
// unique object name of the form <field>-<unix-millis>-<uuid><ext>, where
// ext follows the sniffed type.
func readImage(field string, fh *multipart.FileHeader, maxSize int64, now time.Time) (*upload, error) {
	if fh == nil {
		return nil, errors.New("no file provided")
	}
	if fh.Size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, fh.Size, maxSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, maxSize)
	}

	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedType, contentType)
	}

	if field == "" {
		field = "image"
	}
	name := fmt.Sprintf("%s-%d-%s%s", field, now.UnixMilli(), uuid.NewString(), ext)

	return &upload{name: name, contentType: contentType, data: data}, nil
}

func (u *upload) reader() *bytes.Reader {
	return bytes.NewReader(u.data)
}
