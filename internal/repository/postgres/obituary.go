package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ model.ObituaryStore = (*ObituaryRepository)(nil)

const obituaryColumns = `id, full_name, date_of_birth, date_of_death, biography, photo_kind, photo_path,
		created_by, submitted_by_name, created_at, updated_at`

type ObituaryRepository struct {
	db *Connection
}

func NewObituaryRepository(db *Connection) *ObituaryRepository {
	return &ObituaryRepository{
		db: db,
	}
}

func (r *ObituaryRepository) Create(ctx context.Context, obituary model.Obituary) (model.Obituary, error) {
	query := `INSERT INTO obituaries (` + obituaryColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			  RETURNING ` + obituaryColumns

	kind, path := locatorColumns(obituary.Photo)
	saved, err := scanObituary(r.db.QueryRow(ctx, query,
		obituary.ID, obituary.FullName, obituary.DateOfBirth, obituary.DateOfDeath, obituary.Biography,
		kind, path, obituary.CreatedBy, obituary.SubmittedByName, obituary.CreatedAt, obituary.UpdatedAt,
	))
	if err != nil {
		return model.Obituary{}, fmt.Errorf("failed to create obituary: %w", err)
	}

	return saved, nil
}

func (r *ObituaryRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Obituary, error) {
	query := `SELECT ` + obituaryColumns + ` FROM obituaries WHERE id = $1`

	obituary, err := scanObituary(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Obituary{}, model.ErrNotFound
		}
		return model.Obituary{}, fmt.Errorf("failed to get obituary: %w", err)
	}

	return obituary, nil
}

// Update overwrites the editable columns. Owner and creation time are never changed.
func (r *ObituaryRepository) Update(ctx context.Context, obituary model.Obituary) (model.Obituary, error) {
	query := `UPDATE obituaries
			  SET full_name = $2, date_of_birth = $3, date_of_death = $4, biography = $5,
			      photo_kind = $6, photo_path = $7, submitted_by_name = $8, updated_at = $9
			  WHERE id = $1
			  RETURNING ` + obituaryColumns

	kind, path := locatorColumns(obituary.Photo)
	saved, err := scanObituary(r.db.QueryRow(ctx, query,
		obituary.ID, obituary.FullName, obituary.DateOfBirth, obituary.DateOfDeath, obituary.Biography,
		kind, path, obituary.SubmittedByName, obituary.UpdatedAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Obituary{}, model.ErrNotFound
		}
		return model.Obituary{}, fmt.Errorf("failed to update obituary: %w", err)
	}

	return saved, nil
}

func (r *ObituaryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM obituaries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete obituary: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// List returns one page of obituaries, newest first, and the total number of matches.
func (r *ObituaryRepository) List(ctx context.Context, filter model.ObituaryFilter) ([]model.Obituary, int, error) {
	filter = filter.Normalize()
	pattern := searchPattern(filter.Search)

	const where = ` WHERE ($1 = '' OR full_name ILIKE $1 ESCAPE '\')`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM obituaries`+where, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count obituaries: %w", err)
	}

	query := `SELECT ` + obituaryColumns + ` FROM obituaries` + where + `
			  ORDER BY created_at DESC, id
			  LIMIT $2 OFFSET $3`

	rows, err := r.db.Query(ctx, query, pattern, filter.PageSize, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list obituaries: %w", err)
	}
	defer rows.Close()

	obituaries := make([]model.Obituary, 0, filter.PageSize)
	for rows.Next() {
		obituary, err := scanObituary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan obituary: %w", err)
		}
		obituaries = append(obituaries, obituary)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate obituaries: %w", err)
	}

	return obituaries, total, nil
}

func scanObituary(row pgx.Row) (model.Obituary, error) {
	var (
		o          model.Obituary
		kind, path *string
	)
	err := row.Scan(
		&o.ID, &o.FullName, &o.DateOfBirth, &o.DateOfDeath, &o.Biography, &kind, &path,
		&o.CreatedBy, &o.SubmittedByName, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return model.Obituary{}, err
	}
	o.Photo = locatorFromColumns(kind, path)
	return o, nil
}

func locatorColumns(l model.Locator) (*string, *string) {
	if l.IsZero() {
		return nil, nil
	}
	kind, path := string(l.Kind), l.Path
	return &kind, &path
}

func locatorFromColumns(kind, path *string) model.Locator {
	if path == nil || *path == "" {
		return model.Locator{}
	}
	if kind == nil {
		return model.ParseLocator(*path)
	}
	return model.Locator{Kind: model.LocatorKind(*kind), Path: *path}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchPattern turns a free-text term into an ILIKE substring pattern.
func searchPattern(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(term) + "%"
}
