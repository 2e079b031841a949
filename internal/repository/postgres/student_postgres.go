package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"
)

// StudentPostgres is a PostgreSQL implementation of repository.StudentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type StudentPostgres struct {
	db *sql.DB
}

// NewStudentPostgres creates a new StudentPostgres repository.
func NewStudentPostgres(db *sql.DB) *StudentPostgres {
	return &StudentPostgres{db: db}
}

var _ repository.StudentRepository = (*StudentPostgres)(nil)

const studentColumns = "id_number, first_name, last_name, year_level, gender, program_code, photo_path"

// Whitelists keep user-supplied sort/search keys out of the SQL text.
var studentSortColumns = map[string]string{
	"id_number":    "id_number",
	"first_name":   "first_name",
	"last_name":    "last_name",
	"year_level":   "year_level",
	"gender":       "gender",
	"program_code": "program_code",
}

var studentSearchColumns = map[string]string{
	"id_number":    "id_number",
	"first_name":   "first_name",
	"last_name":    "last_name",
	"program_code": "program_code",
}

func scanStudent(row interface{ Scan(...any) error }) (*model.Student, error) {
	var s model.Student
	if err := row.Scan(
		&s.IDNumber,
		&s.FirstName,
		&s.LastName,
		&s.YearLevel,
		&s.Gender,
		&s.ProgramCode,
		&s.PhotoPath,
	); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new student row and returns the stored record.
func (r *StudentPostgres) Create(ctx context.Context, s *model.Student) (*model.Student, error) {
	const q = `
		INSERT INTO students (id_number, first_name, last_name, year_level, gender, program_code, photo_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + studentColumns
	row := r.db.QueryRowContext(ctx, q,
		s.IDNumber,
		s.FirstName,
		s.LastName,
		s.YearLevel,
		s.Gender,
		s.ProgramCode,
		s.PhotoPath,
	)
	return scanStudent(row)
}

// FindByID fetches a single student by ID number.
func (r *StudentPostgres) FindByID(ctx context.Context, idNumber string) (*model.Student, error) {
	const q = `SELECT ` + studentColumns + ` FROM students WHERE id_number = $1`
	return scanStudent(r.db.QueryRowContext(ctx, q, idNumber))
}

// Search returns students using dynamic filters, whitelisted sorting, and
// LIMIT/OFFSET pagination, plus a total count over the same filter.
func (r *StudentPostgres) Search(ctx context.Context, q repository.StudentQuery) (*repository.PageResult[model.Student], error) {
	var (
		where []string
		args  []any
	)

	if q.SearchTerm != "" {
		pattern := "%" + q.SearchTerm + "%"
		if col, ok := studentSearchColumns[q.SearchBy]; ok {
			args = append(args, pattern)
			where = append(where, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
		} else {
			args = append(args, pattern)
			n := len(args)
			where = append(where, fmt.Sprintf("(id_number ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d)", n, n, n))
		}
	}
	if q.Gender != nil {
		args = append(args, *q.Gender)
		where = append(where, fmt.Sprintf("gender = $%d", len(args)))
	}
	if q.YearLevel != nil {
		args = append(args, *q.YearLevel)
		where = append(where, fmt.Sprintf("year_level = $%d", len(args)))
	}
	if q.ProgramCode != nil {
		args = append(args, *q.ProgramCode)
		where = append(where, fmt.Sprintf("program_code = $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students"+whereClause, args...).Scan(&total); err != nil {
		return nil, err
	}

	sortCol, ok := studentSortColumns[q.SortBy]
	if !ok {
		sortCol = "id_number"
	}
	sortDir := "ASC"
	if strings.EqualFold(q.SortOrder, "DESC") {
		sortDir = "DESC"
	}

	args = append(args, q.Limit, q.Offset)
	listQuery := fmt.Sprintf(
		"SELECT %s FROM students%s ORDER BY %s %s, id_number ASC LIMIT $%d OFFSET $%d",
		studentColumns, whereClause, sortCol, sortDir, len(args)-1, len(args),
	)

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Student]{Items: items, Total: total}, nil
}

// Update replaces the row identified by idNumber. The record may carry a new
// ID number; the WHERE clause uses the original key.
func (r *StudentPostgres) Update(ctx context.Context, idNumber string, s *model.Student) (*model.Student, error) {
	const q = `
		UPDATE students
		SET id_number = $2, first_name = $3, last_name = $4, year_level = $5, gender = $6, program_code = $7, photo_path = $8
		WHERE id_number = $1
		RETURNING ` + studentColumns
	row := r.db.QueryRowContext(ctx, q,
		idNumber,
		s.IDNumber,
		s.FirstName,
		s.LastName,
		s.YearLevel,
		s.Gender,
		s.ProgramCode,
		s.PhotoPath,
	)
	return scanStudent(row)
}

// SetPhotoPath updates only the avatar pointer; nil clears it.
func (r *StudentPostgres) SetPhotoPath(ctx context.Context, idNumber string, path *string) (*model.Student, error) {
	const q = `
		UPDATE students SET photo_path = $2 WHERE id_number = $1
		RETURNING ` + studentColumns
	return scanStudent(r.db.QueryRowContext(ctx, q, idNumber, path))
}

// Delete removes a student by ID number. It does not return an error if the
// row does not exist.
func (r *StudentPostgres) Delete(ctx context.Context, idNumber string) error {
	const q = `DELETE FROM students WHERE id_number = $1`
	res, err := r.db.ExecContext(ctx, q, idNumber)
	if err != nil {
		return err
	}
	_, _ = res.RowsAffected()
	return nil
}
