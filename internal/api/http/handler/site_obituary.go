package handler

import (
	"errors"
	"net/http"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/labstack/echo/v4"
)

type listView struct {
	Search     string
	Page       int
	TotalPages int
	Items      []obituaryView
}

type formView struct {
	Action          string
	FullName        string
	DateOfBirth     string
	DateOfDeath     string
	Biography       string
	SubmittedByName string
	PhotoURL        string
	AskSubmitter    bool
}

func newFormView(action string, input model.ObituaryInput, askSubmitter bool) formView {
	return formView{
		Action:          action,
		FullName:        input.FullName,
		DateOfBirth:     Date{Time: input.DateOfBirth}.String(),
		DateOfDeath:     Date{Time: input.DateOfDeath}.String(),
		Biography:       input.Biography,
		SubmittedByName: input.SubmittedByName,
		AskSubmitter:    askSubmitter,
	}
}

func inputOf(o model.Obituary) model.ObituaryInput {
	return model.ObituaryInput{
		FullName:        o.FullName,
		DateOfBirth:     o.DateOfBirth,
		DateOfDeath:     o.DateOfDeath,
		Biography:       o.Biography,
		SubmittedByName: o.SubmittedByName,
	}
}

// Home redirects to the obituary list.
func (h *Site) Home(c echo.Context) error {
	return c.Redirect(http.StatusFound, listPath)
}

func (h *Site) ListObituaries(c echo.Context) error {
	filter := listFilter(c)

	page, err := h.obituaryService.List(c.Request().Context(), filter)
	if err != nil {
		return h.renderError(c, err)
	}

	actor := actorFrom(c, h.contextManager)
	items := make([]obituaryView, 0, len(page.Items))
	for _, o := range page.Items {
		items = append(items, newObituaryView(o, actor))
	}

	totalPages := page.TotalPages()
	if totalPages == 0 {
		totalPages = 1
	}

	return h.render(c, http.StatusOK, "obituary_list", "Obituaries", nil, listView{
		Search:     filter.Search,
		Page:       page.Page,
		TotalPages: totalPages,
		Items:      items,
	})
}

func (h *Site) ShowObituary(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.renderError(c, err)
	}

	obituary, err := h.obituaryService.Get(c.Request().Context(), id)
	if err != nil {
		return h.renderError(c, err)
	}

	return h.render(c, http.StatusOK, "obituary_show", obituary.FullName, nil,
		newObituaryView(obituary, actorFrom(c, h.contextManager)))
}

func (h *Site) NewObituary(c echo.Context) error {
	askSubmitter := actorFrom(c, h.contextManager) == nil
	return h.render(c, http.StatusOK, "obituary_form", "Submit an obituary", nil,
		newFormView(listPath, model.ObituaryInput{}, askSubmitter))
}

// CreateObituary accepts anonymous submissions. A valid session cookie makes the
// logged-in user the owner.
func (h *Site) CreateObituary(c echo.Context) error {
	actor := actorFrom(c, h.contextManager)

	input, photo, err := h.readForm(c)
	if err == nil {
		var obituary model.Obituary
		obituary, err = h.obituaryService.Create(c.Request().Context(), actor, input, photo)
		if err == nil {
			return c.Redirect(http.StatusSeeOther, listPath+"/"+obituary.ID.String())
		}
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return h.render(c, http.StatusBadRequest, "obituary_form", "Submit an obituary", verr.Fields,
			newFormView(listPath, input, actor == nil))
	}
	return h.renderError(c, err)
}

func (h *Site) EditObituary(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.renderError(c, err)
	}

	obituary, err := h.obituaryService.GetForModification(c.Request().Context(), actorFrom(c, h.contextManager), id)
	if err != nil {
		return h.renderError(c, err)
	}

	view := newFormView(editPath(obituary), inputOf(obituary), false)
	view.PhotoURL = photoURL(obituary.Photo)
	return h.render(c, http.StatusOK, "obituary_form", "Edit "+obituary.FullName, nil, view)
}

func (h *Site) UpdateObituary(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.renderError(c, err)
	}
	actor := actorFrom(c, h.contextManager)

	input, photo, err := h.readForm(c)
	if err != nil {
		if _, accessErr := h.obituaryService.GetForModification(c.Request().Context(), actor, id); accessErr != nil {
			return h.renderError(c, accessErr)
		}
	} else {
		_, err = h.obituaryService.Update(c.Request().Context(), actor, id, input, photo)
		if err == nil {
			return c.Redirect(http.StatusSeeOther, listPath+"/"+id.String())
		}
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		return h.render(c, http.StatusBadRequest, "obituary_form", "Edit obituary", verr.Fields,
			newFormView(listPath+"/"+id.String()+"/edit", input, false))
	}
	return h.renderError(c, err)
}

func (h *Site) ConfirmDeleteObituary(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.renderError(c, err)
	}

	obituary, err := h.obituaryService.GetForModification(c.Request().Context(), actorFrom(c, h.contextManager), id)
	if err != nil {
		return h.renderError(c, err)
	}

	return h.render(c, http.StatusOK, "obituary_delete", "Delete obituary", nil,
		newObituaryView(obituary, actorFrom(c, h.contextManager)))
}

func (h *Site) DeleteObituary(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return h.renderError(c, err)
	}

	if err := h.obituaryService.Delete(c.Request().Context(), actorFrom(c, h.contextManager), id); err != nil {
		return h.renderError(c, err)
	}

	return c.Redirect(http.StatusSeeOther, listPath)
}

func (h *Site) readForm(c echo.Context) (model.ObituaryInput, *model.Upload, error) {
	input, err := readObituaryForm(c)
	if err != nil {
		return input, nil, err
	}
	photo, err := readPhoto(c, h.maxUploadBytes)
	if err != nil {
		return input, nil, err
	}
	return input, photo, nil
}

func editPath(o model.Obituary) string {
	return listPath + "/" + o.ID.String() + "/edit"
}
