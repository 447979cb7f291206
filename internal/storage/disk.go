package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore writes images into a local directory served under URLPrefix.
type DiskStore struct {
	dir       string
	urlPrefix string
	maxSize   int64
	now       func() time.Time
}

// NewDiskStore creates the upload directory if needed.
func NewDiskStore(dir, urlPrefix string, maxSize int64) (*DiskStore, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxSize:   maxSize,
		now:       time.Now,
	}, nil
}

// Dir returns the directory images are written to.
func (s *DiskStore) Dir() string {
	return s.dir
}

// URLPrefix returns the public path images are served under.
func (s *DiskStore) URLPrefix() string {
	return s.urlPrefix
}

func (s *DiskStore) Save(_ context.Context, field string, fh *multipart.FileHeader) (string, error) {
	up, err := readImage(field, fh, s.maxSize, s.now())
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(filepath.Join(s.dir, up.name), up.data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return path.Join(s.urlPrefix, up.name), nil
}

// Delete removes a previously saved image. URLs outside the prefix and
// files that are already gone are ignored.
func (s *DiskStore) Delete(_ context.Context, url string) error {
	if !strings.HasPrefix(url, s.urlPrefix+"/") {
		return nil
	}
	name := path.Base(url)
	if name == "." || name == "/" || name == ".." {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
