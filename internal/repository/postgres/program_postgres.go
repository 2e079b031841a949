package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"
)

// ProgramPostgres is a PostgreSQL implementation of repository.ProgramRepository.
type ProgramPostgres struct {
	db *sql.DB
}

// NewProgramPostgres creates a new ProgramPostgres repository.
func NewProgramPostgres(db *sql.DB) *ProgramPostgres {
	return &ProgramPostgres{db: db}
}

var _ repository.ProgramRepository = (*ProgramPostgres)(nil)

var programSortColumns = map[string]string{
	"program_code": "program_code",
	"program_name": "program_name",
	"college_code": "college_code",
}

// Create inserts a new program row.
func (r *ProgramPostgres) Create(ctx context.Context, p *model.Program) (*model.Program, error) {
	const q = `
		INSERT INTO programs (program_code, program_name, college_code)
		VALUES ($1, $2, $3)
		RETURNING program_code, program_name, college_code
	`
	var out model.Program
	if err := r.db.QueryRowContext(ctx, q, p.ProgramCode, p.ProgramName, p.CollegeCode).
		Scan(&out.ProgramCode, &out.ProgramName, &out.CollegeCode); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByCode fetches a single program by code.
func (r *ProgramPostgres) FindByCode(ctx context.Context, code string) (*model.Program, error) {
	const q = `SELECT program_code, program_name, college_code FROM programs WHERE program_code = $1`
	var p model.Program
	if err := r.db.QueryRowContext(ctx, q, code).
		Scan(&p.ProgramCode, &p.ProgramName, &p.CollegeCode); err != nil {
		return nil, err
	}
	return &p, nil
}

// Search returns programs with optional text search and college filter.
func (r *ProgramPostgres) Search(ctx context.Context, q repository.ProgramQuery) (*repository.PageResult[model.Program], error) {
	var (
		where []string
		args  []any
	)
	if q.SearchTerm != "" {
		args = append(args, "%"+q.SearchTerm+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(program_code ILIKE $%d OR program_name ILIKE $%d)", n, n))
	}
	if q.CollegeCode != nil {
		args = append(args, *q.CollegeCode)
		where = append(where, fmt.Sprintf("college_code = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM programs"+whereClause, args...).Scan(&total); err != nil {
		return nil, err
	}

	sortCol, ok := programSortColumns[q.SortBy]
	if !ok {
		sortCol = "program_code"
	}
	sortDir := "ASC"
	if strings.EqualFold(q.SortOrder, "DESC") {
		sortDir = "DESC"
	}

	args = append(args, q.Limit, q.Offset)
	listQuery := fmt.Sprintf(
		"SELECT program_code, program_name, college_code FROM programs%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		whereClause, sortCol, sortDir, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Program, 0)
	for rows.Next() {
		var p model.Program
		if err := rows.Scan(&p.ProgramCode, &p.ProgramName, &p.CollegeCode); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Program]{Items: items, Total: total}, nil
}

// Update replaces the row identified by code.
func (r *ProgramPostgres) Update(ctx context.Context, code string, p *model.Program) (*model.Program, error) {
	const q = `
		UPDATE programs SET program_code = $2, program_name = $3, college_code = $4
		WHERE program_code = $1
		RETURNING program_code, program_name, college_code
	`
	var out model.Program
	if err := r.db.QueryRowContext(ctx, q, code, p.ProgramCode, p.ProgramName, p.CollegeCode).
		Scan(&out.ProgramCode, &out.ProgramName, &out.CollegeCode); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a program by code. It does not return an error if the row
// does not exist.
func (r *ProgramPostgres) Delete(ctx context.Context, code string) error {
	const q = `DELETE FROM programs WHERE program_code = $1`
	res, err := r.db.ExecContext(ctx, q, code)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}

// ExistsForCollege reports whether any program references the college.
func (r *ProgramPostgres) ExistsForCollege(ctx context.Context, collegeCode string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM programs WHERE college_code = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, collegeCode).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
