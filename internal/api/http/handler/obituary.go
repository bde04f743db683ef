package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ObituaryService defines obituary read and write operations.
type ObituaryService interface {
	List(ctx context.Context, filter model.ObituaryFilter) (model.ObituaryPage, error)
	Get(ctx context.Context, id uuid.UUID) (model.Obituary, error)
	GetForModification(ctx context.Context, actor *model.Principal, id uuid.UUID) (model.Obituary, error)
	Create(ctx context.Context, actor *model.Principal, input model.ObituaryInput, photo *model.Upload) (model.Obituary, error)
	Update(ctx context.Context, actor *model.Principal, id uuid.UUID, input model.ObituaryInput, photo *model.Upload) (model.Obituary, error)
	Delete(ctx context.Context, actor *model.Principal, id uuid.UUID) error
}

// Obituary handles the JSON API for obituaries.
type Obituary struct {
	obituaryService ObituaryService
	contextManager  model.ContextManager
	maxUploadBytes  int64
	logger          *logger.Logger
}

// NewObituary creates a new Obituary handler.
func NewObituary(obituaryService ObituaryService, contextManager model.ContextManager, maxUploadBytes int64, logger *logger.Logger) *Obituary {
	return &Obituary{
		obituaryService: obituaryService,
		contextManager:  contextManager,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger,
	}
}

// List returns a page of obituaries filtered by ?search, ?page and ?pageSize.
func (h *Obituary) List(c echo.Context) error {
	filter := listFilter(c)

	page, err := h.obituaryService.List(c.Request().Context(), filter)
	if err != nil {
		h.logger.Error("Obituary handler: list failed", "error", err.Error())
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, newListResponse(page))
}

func (h *Obituary) Get(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}

	obituary, err := h.obituaryService.Get(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, newObituaryResponse(obituary))
}

// Create accepts a JSON body or a multipart form with an optional photo.
func (h *Obituary) Create(c echo.Context) error {
	input, photo, err := h.bind(c)
	if err != nil {
		return handleError(c, err)
	}

	actor := actorFrom(c, h.contextManager)
	obituary, err := h.obituaryService.Create(c.Request().Context(), actor, input, photo)
	if err != nil {
		h.logger.Debug("Obituary handler: create failed", "error", err.Error())
		return handleError(c, err)
	}

	h.logger.Info("Obituary handler: obituary created", "obituary_id", obituary.ID)
	return c.JSON(http.StatusCreated, newObituaryResponse(obituary))
}

func (h *Obituary) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}

	actor := actorFrom(c, h.contextManager)

	input, photo, err := h.bind(c)
	if err != nil {
		// Missing records and foreign owners are reported ahead of an unreadable body.
		if _, accessErr := h.obituaryService.GetForModification(c.Request().Context(), actor, id); accessErr != nil {
			return handleError(c, accessErr)
		}
		return handleError(c, err)
	}

	obituary, err := h.obituaryService.Update(c.Request().Context(), actor, id, input, photo)
	if err != nil {
		h.logger.Debug("Obituary handler: update failed", "obituary_id", id, "error", err.Error())
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, newObituaryResponse(obituary))
}

func (h *Obituary) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return handleError(c, err)
	}

	if err := h.obituaryService.Delete(c.Request().Context(), actorFrom(c, h.contextManager), id); err != nil {
		h.logger.Debug("Obituary handler: delete failed", "obituary_id", id, "error", err.Error())
		return handleError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Obituary) bind(c echo.Context) (model.ObituaryInput, *model.Upload, error) {
	if isMultipart(c) {
		input, err := readObituaryForm(c)
		if err != nil {
			return model.ObituaryInput{}, nil, err
		}
		photo, err := readPhoto(c, h.maxUploadBytes)
		if err != nil {
			return model.ObituaryInput{}, nil, err
		}
		return input, photo, nil
	}

	var req obituaryRequest
	if err := c.Bind(&req); err != nil {
		return model.ObituaryInput{}, nil, model.NewValidationError("body", "malformed request body")
	}
	return req.toInput(), nil, nil
}

func listFilter(c echo.Context) model.ObituaryFilter {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("pageSize"))
	return model.ObituaryFilter{
		Search:   c.QueryParam("search"),
		Page:     page,
		PageSize: pageSize,
	}
}

// actorFrom returns the request principal, or nil for an anonymous request.
func actorFrom(c echo.Context, contextManager model.ContextManager) *model.Principal {
	principal, ok := contextManager.GetPrincipalFromContext(c.Request().Context())
	if !ok {
		return nil
	}
	return &principal
}
