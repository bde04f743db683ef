package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Default and maximum page sizes for obituary listings.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ObituaryStore defines persistence operations for obituaries.
type ObituaryStore interface {
	Create(ctx context.Context, obituary Obituary) (Obituary, error)
	GetByID(ctx context.Context, id uuid.UUID) (Obituary, error)
	Update(ctx context.Context, obituary Obituary) (Obituary, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ObituaryFilter) ([]Obituary, int, error)
}

// Obituary represents a published obituary notice.
type Obituary struct {
	ID              uuid.UUID
	FullName        string
	DateOfBirth     time.Time
	DateOfDeath     time.Time
	Biography       string
	Photo           Locator
	CreatedBy       *uuid.UUID
	SubmittedByName string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ObituaryInput holds client-editable obituary fields.
type ObituaryInput struct {
	FullName        string
	DateOfBirth     time.Time
	DateOfDeath     time.Time
	Biography       string
	SubmittedByName string
}

// ObituaryFilter selects a page of obituaries.
type ObituaryFilter struct {
	Search   string
	Page     int
	PageSize int
}

// Normalize applies default paging values and clamps out-of-range ones.
func (f ObituaryFilter) Normalize() ObituaryFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// Offset returns the number of rows to skip for the filter's page.
func (f ObituaryFilter) Offset() int {
	return (f.Page - 1) * f.PageSize
}

// ObituaryPage is one page of a listing.
type ObituaryPage struct {
	Page     int
	PageSize int
	Total    int
	Items    []Obituary
}

// TotalPages returns the number of pages needed for Total items.
func (p ObituaryPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}
