package handler

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Date is a calendar date that accepts YYYY-MM-DD or RFC 3339 and renders as YYYY-MM-DD.
type Date struct {
	time.Time
}

// ParseDate parses s as YYYY-MM-DD or RFC 3339. An empty string yields the zero date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// String renders the date for HTML date inputs.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

type obituaryRequest struct {
	FullName        string `json:"fullName"`
	DateOfBirth     Date   `json:"dateOfBirth"`
	DateOfDeath     Date   `json:"dateOfDeath"`
	Biography       string `json:"biography"`
	SubmittedByName string `json:"submittedByName"`
}

func (r obituaryRequest) toInput() model.ObituaryInput {
	return model.ObituaryInput{
		FullName:        r.FullName,
		DateOfBirth:     r.DateOfBirth.Time,
		DateOfDeath:     r.DateOfDeath.Time,
		Biography:       r.Biography,
		SubmittedByName: r.SubmittedByName,
	}
}

type obituaryResponse struct {
	ID              uuid.UUID  `json:"id"`
	FullName        string     `json:"fullName"`
	DateOfBirth     Date       `json:"dateOfBirth"`
	DateOfDeath     Date       `json:"dateOfDeath"`
	Biography       string     `json:"biography"`
	PhotoPath       *string    `json:"photoPath"`
	PhotoStorage    *string    `json:"photoStorage"`
	CreatedBy       *uuid.UUID `json:"createdBy"`
	SubmittedByName string     `json:"submittedByName,omitempty"`
	CreatedDate     time.Time  `json:"createdDate"`
	ModifiedDate    time.Time  `json:"modifiedDate"`
}

func newObituaryResponse(o model.Obituary) obituaryResponse {
	resp := obituaryResponse{
		ID:              o.ID,
		FullName:        o.FullName,
		DateOfBirth:     Date{Time: o.DateOfBirth},
		DateOfDeath:     Date{Time: o.DateOfDeath},
		Biography:       o.Biography,
		CreatedBy:       o.CreatedBy,
		SubmittedByName: o.SubmittedByName,
		CreatedDate:     o.CreatedAt,
		ModifiedDate:    o.UpdatedAt,
	}
	if !o.Photo.IsZero() {
		path, kind := photoURL(o.Photo), string(o.Photo.Kind)
		resp.PhotoPath, resp.PhotoStorage = &path, &kind
	}
	return resp
}

// photoURL returns the URL a browser fetches the photo from. Local paths are served
// from the site root.
func photoURL(l model.Locator) string {
	if l.IsZero() {
		return ""
	}
	if l.Kind == model.LocatorLocal {
		return "/" + strings.TrimPrefix(l.Path, "/")
	}
	return l.Path
}

type listResponse struct {
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	Total      int                `json:"total"`
	TotalPages int                `json:"totalPages"`
	Items      []obituaryResponse `json:"items"`
}

func newListResponse(page model.ObituaryPage) listResponse {
	items := make([]obituaryResponse, 0, len(page.Items))
	for _, o := range page.Items {
		items = append(items, newObituaryResponse(o))
	}
	return listResponse{
		Page:       page.Page,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages(),
		Items:      items,
	}
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Roles     []string  `json:"roles"`
}

func newUserResponse(u model.User) userResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		UserName:  u.UserName,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Roles:     roles,
	}
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}
