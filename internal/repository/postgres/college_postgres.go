package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"
)

// CollegePostgres is a PostgreSQL implementation of repository.CollegeRepository.
type CollegePostgres struct {
	db *sql.DB
}

// NewCollegePostgres creates a new CollegePostgres repository.
func NewCollegePostgres(db *sql.DB) *CollegePostgres {
	return &CollegePostgres{db: db}
}

var _ repository.CollegeRepository = (*CollegePostgres)(nil)

var collegeSortColumns = map[string]string{
	"college_code": "college_code",
	"college_name": "college_name",
}

// Create inserts a new college row.
func (r *CollegePostgres) Create(ctx context.Context, c *model.College) (*model.College, error) {
	const q = `
		INSERT INTO colleges (college_code, college_name)
		VALUES ($1, $2)
		RETURNING college_code, college_name
	`
	var out model.College
	if err := r.db.QueryRowContext(ctx, q, c.CollegeCode, c.CollegeName).
		Scan(&out.CollegeCode, &out.CollegeName); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByCode fetches a single college by code.
func (r *CollegePostgres) FindByCode(ctx context.Context, code string) (*model.College, error) {
	const q = `SELECT college_code, college_name FROM colleges WHERE college_code = $1`
	var c model.College
	if err := r.db.QueryRowContext(ctx, q, code).Scan(&c.CollegeCode, &c.CollegeName); err != nil {
		return nil, err
	}
	return &c, nil
}

// Search returns colleges with optional search across code and name.
func (r *CollegePostgres) Search(ctx context.Context, q repository.CollegeQuery) (*repository.PageResult[model.College], error) {
	var (
		where string
		args  []any
	)
	if q.SearchTerm != "" {
		args = append(args, "%"+q.SearchTerm+"%")
		where = " WHERE (college_code ILIKE $1 OR college_name ILIKE $1)"
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM colleges"+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	sortCol, ok := collegeSortColumns[q.SortBy]
	if !ok {
		sortCol = "college_code"
	}
	sortDir := "ASC"
	if strings.EqualFold(q.SortOrder, "DESC") {
		sortDir = "DESC"
	}

	args = append(args, q.Limit, q.Offset)
	listQuery := fmt.Sprintf(
		"SELECT college_code, college_name FROM colleges%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		where, sortCol, sortDir, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.College, 0)
	for rows.Next() {
		var c model.College
		if err := rows.Scan(&c.CollegeCode, &c.CollegeName); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.College]{Items: items, Total: total}, nil
}

// Update replaces the row identified by code.
func (r *CollegePostgres) Update(ctx context.Context, code string, c *model.College) (*model.College, error) {
	const q = `
		UPDATE colleges SET college_code = $2, college_name = $3
		WHERE college_code = $1
		RETURNING college_code, college_name
	`
	var out model.College
	if err := r.db.QueryRowContext(ctx, q, code, c.CollegeCode, c.CollegeName).
		Scan(&out.CollegeCode, &out.CollegeName); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a college by code. It does not return an error if the row
// does not exist.
func (r *CollegePostgres) Delete(ctx context.Context, code string) error {
	const q = `DELETE FROM colleges WHERE college_code = $1`
	res, err := r.db.ExecContext(ctx, q, code)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
