package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const photoField = "photo"

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}

// readObituaryForm reads the obituary fields of a urlencoded or multipart form.
// Text fields are returned even when a date fails to parse so forms can be re-rendered.
func readObituaryForm(c echo.Context) (model.ObituaryInput, error) {
	input := model.ObituaryInput{
		FullName:        c.FormValue("fullName"),
		Biography:       c.FormValue("biography"),
		SubmittedByName: c.FormValue("submittedByName"),
	}

	verr := &model.ValidationError{}
	if birth, err := ParseDate(c.FormValue("dateOfBirth")); err != nil {
		verr.Add("dateOfBirth", err.Error())
	} else {
		input.DateOfBirth = birth.Time
	}
	if death, err := ParseDate(c.FormValue("dateOfDeath")); err != nil {
		verr.Add("dateOfDeath", err.Error())
	} else {
		input.DateOfDeath = death.Time
	}

	if !verr.Empty() {
		return input, verr
	}
	return input, nil
}

// readPhoto returns the uploaded photo or nil when the form carries none.
func readPhoto(c echo.Context, maxBytes int64) (*model.Upload, error) {
	header, err := c.FormFile(photoField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open photo: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, model.NewValidationError(photoField, fmt.Sprintf("must not exceed %d bytes", maxBytes))
	}
	if len(data) == 0 {
		return nil, nil
	}

	return &model.Upload{
		FileName:    header.Filename,
		ContentType: header.Header.Get(echo.HeaderContentType),
		Data:        data,
	}, nil
}

// parseID parses the :id path parameter. Malformed ids are reported as not found.
func parseID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, model.ErrNotFound
	}
	return id, nil
}
