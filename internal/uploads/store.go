package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// public mount prefix the stored name is returned under
	URLPrefix = "/uploads"

	defaultExt = ".jpg"
)

// DiskStore writes uploaded payloads under a single directory. Stored
// names are random, never derived from the client filename, so colliding
// or hostile original names cannot clobber or escape the directory.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	err := os.MkdirAll(dir, 0o755)

	if err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}

	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Dir() string {
	return s.dir
}

// Save persists the payload and returns its public reference path.
// Only the extension survives from the original filename.
func (s *DiskStore) Save(originalName string, src io.Reader) (string, int64, error) {
	ext := filepath.Ext(filepath.Base(originalName))

	if ext == "" || ext == "." {
		ext = defaultExt
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	dst, err := os.Create(filepath.Join(s.dir, name))

	if err != nil {
		return "", 0, fmt.Errorf("create upload file: %w", err)
	}

	written, err := io.Copy(dst, src)

	if err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", 0, fmt.Errorf("write upload: %w", err)
	}

	err = dst.Close()

	if err != nil {
		return "", 0, fmt.Errorf("close upload file: %w", err)
	}

	return URLPrefix + "/" + name, written, nil
}
