// Package local stores attachments on the server's filesystem under a public uploads directory.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dtroode/obituary-server/internal/model"
)

// UploadsDir is the directory under the root that files are written to and served from.
const UploadsDir = "uploads"

var (
	errInvalidName = errors.New("invalid file name")
	errOutsideRoot = errors.New("path escapes storage root")
)

var _ model.FileStorage = (*Disk)(nil)

type Disk struct {
	root string
}

func NewDisk(root string) *Disk {
	return &Disk{root: root}
}

// Root returns the directory relative paths are resolved against.
func (d *Disk) Root() string {
	return d.root
}

// Save writes data to <root>/uploads/<name> and returns "uploads/<name>".
// An existing file with the same name is never overwritten.
func (d *Disk) Save(_ context.Context, name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", errInvalidName, name)
	}

	dir := filepath.Join(d.root, UploadsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return path.Join(UploadsDir, name), nil
}

// Delete removes the file at a root-relative path. Missing files are not an error.
func (d *Disk) Delete(_ context.Context, relPath string) error {
	full, err := d.resolve(relPath)
	if err != nil {
		return err
	}

	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (d *Disk) resolve(relPath string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(relPath, "/")))
	if cleaned == "." || filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", errOutsideRoot, relPath)
	}
	return filepath.Join(d.root, cleaned), nil
}
