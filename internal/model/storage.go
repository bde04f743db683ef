package model

import (
	"context"
	"io"
	"strings"
)

// LocatorKind tags where attachment bytes live.
type LocatorKind string

const (
	// LocatorRemote points at an object in remote object storage; Path is an absolute URL.
	LocatorRemote LocatorKind = "remote"
	// LocatorLocal points at a file under the local uploads root; Path is relative.
	LocatorLocal LocatorKind = "local"
)

// Locator references stored attachment bytes. The zero value means "no attachment".
type Locator struct {
	Kind LocatorKind
	Path string
}

// RemoteLocator returns a locator for an object URL.
func RemoteLocator(url string) Locator {
	return Locator{Kind: LocatorRemote, Path: url}
}

// LocalLocator returns a locator for a path relative to the uploads root.
func LocalLocator(path string) Locator {
	return Locator{Kind: LocatorLocal, Path: path}
}

// ParseLocator rebuilds a locator from its bare path. Absolute http(s) URLs are remote,
// anything else is local.
func ParseLocator(path string) Locator {
	path = strings.TrimSpace(path)
	if path == "" {
		return Locator{}
	}
	lower := strings.ToLower(path)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return RemoteLocator(path)
	}
	return LocalLocator(path)
}

// IsZero reports whether the locator references nothing.
func (l Locator) IsZero() bool {
	return l.Path == ""
}

func (l Locator) String() string {
	return l.Path
}

// Upload is an attachment received from a client.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ObjectStorage is a remote object storage backend.
type ObjectStorage interface {
	// Upload stores the object under key and returns its absolute URL.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	// Delete removes the object referenced by an URL previously returned from Upload.
	Delete(ctx context.Context, url string) error
}

// FileStorage is a local filesystem backend.
type FileStorage interface {
	// Save writes data under name and returns the path relative to the storage root.
	Save(ctx context.Context, name string, data []byte) (string, error)
	// Delete removes the file at the relative path if it exists.
	Delete(ctx context.Context, path string) error
}

// AttachmentStore stores photos with remote-first, local-fallback semantics.
type AttachmentStore interface {
	Store(ctx context.Context, upload Upload) (Locator, error)
	Delete(ctx context.Context, locator Locator)
}
