package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"
)

// idNumberRE matches student ID numbers like "2025-0001".
var idNumberRE = regexp.MustCompile(`^\d{4}-\d{4}$`)

var allowedGenders = map[string]bool{
	"MALE":   true,
	"FEMALE": true,
	"OTHER":  true,
}

const (
	defaultPageSize = 50
	maxPageSize     = 100
	maxNameLen      = 50
)

// CreateStudentInput carries the fields for a new student record.
type CreateStudentInput struct {
	IDNumber    string `json:"id_number"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	YearLevel   int    `json:"year_level"`
	Gender      string `json:"gender"`
	ProgramCode string `json:"program_code"`
}

// UpdateStudentInput carries partial updates; nil fields are left unchanged.
type UpdateStudentInput struct {
	IDNumber    *string `json:"id_number"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	YearLevel   *int    `json:"year_level"`
	Gender      *string `json:"gender"`
	ProgramCode *string `json:"program_code"`
}

// StudentSearchParams carries search/sort/filter/pagination parameters.
type StudentSearchParams struct {
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
	SearchBy   string
	SearchTerm string

	Gender      *string
	YearLevel   *int
	ProgramCode *string
}

// StudentListResult is the service-level DTO for paginated students.
type StudentListResult struct {
	Items    []model.Student `json:"data"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// StudentService defines the use cases for managing student records.
// Avatar pointer mutation is deliberately absent: that is AvatarService's job.
type StudentService interface {
	Create(ctx context.Context, in CreateStudentInput) (*model.Student, error)
	Get(ctx context.Context, idNumber string) (*model.Student, error)
	Search(ctx context.Context, p StudentSearchParams) (*StudentListResult, error)
	Update(ctx context.Context, idNumber string, in UpdateStudentInput) (*model.Student, error)
	Delete(ctx context.Context, idNumber string) error
}

type studentService struct {
	repo     repository.StudentRepository
	programs repository.ProgramRepository
}

// NewStudentService constructs a new StudentService.
func NewStudentService(repo repository.StudentRepository, programs repository.ProgramRepository) StudentService {
	return &studentService{repo: repo, programs: programs}
}

func (s *studentService) Create(ctx context.Context, in CreateStudentInput) (*model.Student, error) {
	student := &model.Student{
		IDNumber:    strings.TrimSpace(in.IDNumber),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		YearLevel:   in.YearLevel,
		Gender:      in.Gender,
		ProgramCode: strings.TrimSpace(in.ProgramCode),
	}

	if err := s.validate(ctx, student); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByID(ctx, student.IDNumber); err == nil {
		return nil, validationErr("STUDENT_ID_EXISTS",
			fmt.Sprintf("student with ID number '%s' already exists", student.IDNumber))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	return s.repo.Create(ctx, student)
}

func (s *studentService) Get(ctx context.Context, idNumber string) (*model.Student, error) {
	if !idNumberRE.MatchString(idNumber) {
		return nil, validationErr("INVALID_ID_NUMBER", "invalid ID number format")
	}
	student, err := s.repo.FindByID(ctx, idNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *studentService) Search(ctx context.Context, p StudentSearchParams) (*StudentListResult, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}

	res, err := s.repo.Search(ctx, repository.StudentQuery{
		SearchBy:    p.SearchBy,
		SearchTerm:  p.SearchTerm,
		Gender:      p.Gender,
		YearLevel:   p.YearLevel,
		ProgramCode: p.ProgramCode,
		SortBy:      p.SortBy,
		SortOrder:   p.SortOrder,
		PageQuery: repository.PageQuery{
			Limit:  p.PageSize,
			Offset: (p.Page - 1) * p.PageSize,
		},
	})
	if err != nil {
		return nil, err
	}

	return &StudentListResult{
		Items:    res.Items,
		Total:    res.Total,
		Page:     p.Page,
		PageSize: p.PageSize,
	}, nil
}

func (s *studentService) Update(ctx context.Context, idNumber string, in UpdateStudentInput) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, idNumber)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if in.IDNumber != nil && *in.IDNumber != student.IDNumber {
		newID := strings.TrimSpace(*in.IDNumber)
		if !idNumberRE.MatchString(newID) {
			return nil, validationErr("INVALID_ID_NUMBER", "invalid ID number format")
		}
		if _, err := s.repo.FindByID(ctx, newID); err == nil {
			return nil, validationErr("STUDENT_ID_EXISTS",
				fmt.Sprintf("student with ID number '%s' already exists", newID))
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		student.IDNumber = newID
	}
	if in.FirstName != nil {
		student.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		student.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.YearLevel != nil {
		student.YearLevel = *in.YearLevel
	}
	if in.Gender != nil {
		student.Gender = *in.Gender
	}
	if in.ProgramCode != nil {
		student.ProgramCode = strings.TrimSpace(*in.ProgramCode)
	}

	if err := s.validate(ctx, student); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, idNumber, student)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *studentService) Delete(ctx context.Context, idNumber string) error {
	if _, err := s.repo.FindByID(ctx, idNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, idNumber)
}

// validate enforces field rules shared by create and update.
func (s *studentService) validate(ctx context.Context, st *model.Student) error {
	if !idNumberRE.MatchString(st.IDNumber) {
		return validationErr("INVALID_ID_NUMBER", "invalid ID number format")
	}
	if st.FirstName == "" {
		return validationErr("EMPTY_FIRST_NAME", "first name cannot be empty")
	}
	if len(st.FirstName) > maxNameLen {
		return validationErr("FIRST_NAME_TOO_LONG", "first name cannot exceed 50 characters")
	}
	if st.LastName == "" {
		return validationErr("EMPTY_LAST_NAME", "last name cannot be empty")
	}
	if len(st.LastName) > maxNameLen {
		return validationErr("LAST_NAME_TOO_LONG", "last name cannot exceed 50 characters")
	}
	if st.YearLevel < 1 || st.YearLevel > 5 {
		return validationErr("INVALID_YEAR_LEVEL", "year level must be between 1 and 5")
	}
	if !allowedGenders[st.Gender] {
		return validationErr("INVALID_GENDER",
			fmt.Sprintf("invalid gender: %s", st.Gender))
	}

	if _, err := s.programs.FindByCode(ctx, st.ProgramCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return validationErr("PROGRAM_NOT_FOUND",
				fmt.Sprintf("program with code '%s' does not exist", st.ProgramCode))
		}
		return err
	}
	return nil
}
