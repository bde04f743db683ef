package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/obituary-server/internal/authz"
	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
)

type Obituary struct {
	store       model.ObituaryStore
	attachments model.AttachmentStore
	logger      *logger.Logger
	now         func() time.Time
}

func NewObituary(store model.ObituaryStore, attachments model.AttachmentStore, logger *logger.Logger) *Obituary {
	return &Obituary{
		store:       store,
		attachments: attachments,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns a page of obituaries, newest first.
func (s *Obituary) List(ctx context.Context, filter model.ObituaryFilter) (model.ObituaryPage, error) {
	filter = filter.Normalize()

	items, total, err := s.store.List(ctx, filter)
	if err != nil {
		return model.ObituaryPage{}, fmt.Errorf("failed to list obituaries: %w", err)
	}

	return model.ObituaryPage{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Total:    total,
		Items:    items,
	}, nil
}

func (s *Obituary) Get(ctx context.Context, id uuid.UUID) (model.Obituary, error) {
	obituary, err := s.store.GetByID(ctx, id)
	if err != nil {
		return model.Obituary{}, fmt.Errorf("failed to get obituary: %w", err)
	}
	return obituary, nil
}

// GetForModification returns the obituary only if actor may update or delete it.
func (s *Obituary) GetForModification(ctx context.Context, actor *model.Principal, id uuid.UUID) (model.Obituary, error) {
	obituary, err := s.Get(ctx, id)
	if err != nil {
		return model.Obituary{}, err
	}

	if !authz.CanModifyObituary(actor, obituary) {
		s.logger.Info("Obituary service: modification denied", "obituary_id", id, "actor", actor.ActorID())
		return model.Obituary{}, model.ErrForbidden
	}

	return obituary, nil
}

// Create stores the photo, if any, and then the record. A nil actor is an anonymous submission.
func (s *Obituary) Create(ctx context.Context, actor *model.Principal, input model.ObituaryInput, photo *model.Upload) (model.Obituary, error) {
	input = normalizeInput(input)
	ownerID := actor.ActorID()

	if err := validateObituary(input, ownerID == nil); err != nil {
		return model.Obituary{}, err
	}

	now := s.now().UTC()
	obituary := model.Obituary{
		ID:              uuid.New(),
		FullName:        input.FullName,
		DateOfBirth:     input.DateOfBirth,
		DateOfDeath:     input.DateOfDeath,
		Biography:       input.Biography,
		CreatedBy:       ownerID,
		SubmittedByName: input.SubmittedByName,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if hasPhoto(photo) {
		locator, err := s.attachments.Store(ctx, *photo)
		if err != nil {
			s.logger.Error("Obituary service: failed to store photo", "error", err)
			return model.Obituary{}, fmt.Errorf("failed to store photo: %w", err)
		}
		obituary.Photo = locator
	}

	saved, err := s.store.Create(ctx, obituary)
	if err != nil {
		s.logger.Error("Obituary service: failed to create obituary", "error", err)
		s.attachments.Delete(ctx, obituary.Photo)
		return model.Obituary{}, fmt.Errorf("failed to create obituary: %w", err)
	}

	s.logger.Info("Obituary service: obituary created",
		"obituary_id", saved.ID,
		"owner", ownerID,
		"photo", saved.Photo.Kind)

	return saved, nil
}

// Update replaces the editable fields and, when photo is given, the photo.
// The old photo is deleted only after the new one is stored and the record is persisted.
func (s *Obituary) Update(ctx context.Context, actor *model.Principal, id uuid.UUID, input model.ObituaryInput, photo *model.Upload) (model.Obituary, error) {
	existing, err := s.GetForModification(ctx, actor, id)
	if err != nil {
		return model.Obituary{}, err
	}

	input = normalizeInput(input)
	if err := validateObituary(input, false); err != nil {
		return model.Obituary{}, err
	}

	updated := existing
	updated.FullName = input.FullName
	updated.DateOfBirth = input.DateOfBirth
	updated.DateOfDeath = input.DateOfDeath
	updated.Biography = input.Biography
	updated.UpdatedAt = s.now().UTC()

	replaced := false
	if hasPhoto(photo) {
		locator, err := s.attachments.Store(ctx, *photo)
		if err != nil {
			s.logger.Error("Obituary service: failed to store photo", "obituary_id", id, "error", err)
			return model.Obituary{}, fmt.Errorf("failed to store photo: %w", err)
		}
		updated.Photo = locator
		replaced = true
	}

	saved, err := s.store.Update(ctx, updated)
	if err != nil {
		s.logger.Error("Obituary service: failed to update obituary", "obituary_id", id, "error", err)
		if replaced {
			s.attachments.Delete(ctx, updated.Photo)
		}
		return model.Obituary{}, fmt.Errorf("failed to update obituary: %w", err)
	}

	if replaced {
		s.attachments.Delete(ctx, existing.Photo)
	}

	s.logger.Info("Obituary service: obituary updated", "obituary_id", id, "photo_replaced", replaced)

	return saved, nil
}

// Delete removes the record and then, best effort, its photo.
func (s *Obituary) Delete(ctx context.Context, actor *model.Principal, id uuid.UUID) error {
	existing, err := s.GetForModification(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("Obituary service: failed to delete obituary", "obituary_id", id, "error", err)
		return fmt.Errorf("failed to delete obituary: %w", err)
	}

	s.attachments.Delete(ctx, existing.Photo)

	s.logger.Info("Obituary service: obituary deleted", "obituary_id", id)
	return nil
}

func hasPhoto(photo *model.Upload) bool {
	return photo != nil && len(photo.Data) > 0
}

func normalizeInput(input model.ObituaryInput) model.ObituaryInput {
	input.FullName = strings.TrimSpace(input.FullName)
	input.Biography = strings.TrimSpace(input.Biography)
	input.SubmittedByName = strings.TrimSpace(input.SubmittedByName)
	input.DateOfBirth = dateOnly(input.DateOfBirth)
	input.DateOfDeath = dateOnly(input.DateOfDeath)
	return input
}

// dateOnly drops the time of day, keeping the calendar date the client sent.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
