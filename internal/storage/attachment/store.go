// Package attachment stores obituary photos in remote object storage and falls back to
// local disk when the remote backend is missing or failing.
package attachment

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/metrics"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
)

var _ model.AttachmentStore = (*Store)(nil)

type Store struct {
	remote  model.ObjectStorage
	local   model.FileStorage
	metrics *metrics.Metrics
	logger  *logger.Logger
}

// NewStore creates an attachment store. A nil remote means no remote backend is configured.
func NewStore(remote model.ObjectStorage, local model.FileStorage, metrics *metrics.Metrics, logger *logger.Logger) *Store {
	return &Store{
		remote:  remote,
		local:   local,
		metrics: metrics,
		logger:  logger,
	}
}

// Store persists the upload under a fresh collision-resistant name and returns where it went.
func (s *Store) Store(ctx context.Context, upload model.Upload) (model.Locator, error) {
	name := objectName(upload.FileName)

	contentType := upload.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(upload.Data)
	}

	reason := metrics.FallbackNotConfigured
	if s.remote != nil {
		url, err := s.remote.Upload(ctx, name, bytes.NewReader(upload.Data), int64(len(upload.Data)), contentType)
		if err == nil {
			s.metrics.AttachmentsStored.WithLabelValues(string(model.LocatorRemote)).Inc()
			return model.RemoteLocator(url), nil
		}
		reason = metrics.FallbackRemoteFailure
		s.logger.Warn("Attachment store: remote upload failed, falling back to local disk", "name", name, "error", err)
	} else {
		s.logger.Debug("Attachment store: remote storage not configured, using local disk", "name", name)
	}
	s.metrics.AttachmentFallbacks.WithLabelValues(reason).Inc()

	path, err := s.local.Save(ctx, name, upload.Data)
	if err != nil {
		return model.Locator{}, fmt.Errorf("failed to save attachment locally: %w", err)
	}
	s.metrics.AttachmentsStored.WithLabelValues(string(model.LocatorLocal)).Inc()

	return model.LocalLocator(path), nil
}

// Delete removes the bytes a locator references. Failures are logged and never returned.
func (s *Store) Delete(ctx context.Context, locator model.Locator) {
	if locator.IsZero() {
		return
	}

	var err error
	switch locator.Kind {
	case model.LocatorRemote:
		if s.remote == nil {
			s.logger.Warn("Attachment store: cannot delete remote attachment without remote storage", "path", locator.Path)
			return
		}
		err = s.remote.Delete(ctx, locator.Path)
	case model.LocatorLocal:
		err = s.local.Delete(ctx, locator.Path)
	default:
		s.logger.Warn("Attachment store: unknown locator kind", "kind", locator.Kind, "path", locator.Path)
		return
	}

	if err != nil {
		s.logger.Warn("Attachment store: failed to delete attachment", "kind", locator.Kind, "path", locator.Path, "error", err)
	}
}

func objectName(fileName string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(fileName))
}
