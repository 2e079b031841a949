package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"ssisapi/internal/model"
	"ssisapi/internal/repository"
)

// ProgramListResult is the service-level DTO for paginated programs.
type ProgramListResult struct {
	Items    []model.Program `json:"data"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// ProgramService defines the use cases for managing programs.
type ProgramService interface {
	Create(ctx context.Context, p model.Program) (*model.Program, error)
	Get(ctx context.Context, code string) (*model.Program, error)
	List(ctx context.Context, params ListParams, collegeCode *string) (*ProgramListResult, error)
	Update(ctx context.Context, code string, p model.Program) (*model.Program, error)
	Delete(ctx context.Context, code string) error
}

type programService struct {
	repo     repository.ProgramRepository
	colleges repository.CollegeRepository
}

// NewProgramService constructs a new ProgramService.
func NewProgramService(repo repository.ProgramRepository, colleges repository.CollegeRepository) ProgramService {
	return &programService{repo: repo, colleges: colleges}
}

func validateProgram(p *model.Program) error {
	p.ProgramCode = strings.TrimSpace(p.ProgramCode)
	p.ProgramName = strings.TrimSpace(p.ProgramName)
	p.CollegeCode = strings.TrimSpace(p.CollegeCode)
	if p.ProgramCode == "" {
		return validationErr("EMPTY_PROGRAM_CODE", "program code cannot be empty")
	}
	if len(p.ProgramCode) > maxCodeLen {
		return validationErr("PROGRAM_CODE_TOO_LONG", "program code cannot exceed 20 characters")
	}
	if p.ProgramName == "" {
		return validationErr("EMPTY_PROGRAM_NAME", "program name cannot be empty")
	}
	if len(p.ProgramName) > maxLabelLen {
		return validationErr("PROGRAM_NAME_TOO_LONG", "program name cannot exceed 50 characters")
	}
	if p.CollegeCode == "" {
		return validationErr("EMPTY_COLLEGE_CODE", "college code cannot be empty")
	}
	return nil
}

func (s *programService) checkCollege(ctx context.Context, code string) error {
	if _, err := s.colleges.FindByCode(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return validationErr("COLLEGE_NOT_FOUND",
				fmt.Sprintf("college with code '%s' does not exist", code))
		}
		return err
	}
	return nil
}

func (s *programService) Create(ctx context.Context, p model.Program) (*model.Program, error) {
	if err := validateProgram(&p); err != nil {
		return nil, err
	}
	if err := s.checkCollege(ctx, p.CollegeCode); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByCode(ctx, p.ProgramCode); err == nil {
		return nil, validationErr("PROGRAM_CODE_EXISTS",
			fmt.Sprintf("program code '%s' already exists", p.ProgramCode))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return s.repo.Create(ctx, &p)
}

func (s *programService) Get(ctx context.Context, code string) (*model.Program, error) {
	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *programService) List(ctx context.Context, params ListParams, collegeCode *string) (*ProgramListResult, error) {
	params.normalize()
	res, err := s.repo.Search(ctx, repository.ProgramQuery{
		SearchTerm:  params.SearchTerm,
		CollegeCode: collegeCode,
		SortBy:      params.SortBy,
		SortOrder:   params.SortOrder,
		PageQuery:   repository.PageQuery{Limit: params.PageSize, Offset: (params.Page - 1) * params.PageSize},
	})
	if err != nil {
		return nil, err
	}
	return &ProgramListResult{Items: res.Items, Total: res.Total, Page: params.Page, PageSize: params.PageSize}, nil
}

func (s *programService) Update(ctx context.Context, code string, p model.Program) (*model.Program, error) {
	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := validateProgram(&p); err != nil {
		return nil, err
	}
	if err := s.checkCollege(ctx, p.CollegeCode); err != nil {
		return nil, err
	}
	if p.ProgramCode != existing.ProgramCode {
		if _, err := s.repo.FindByCode(ctx, p.ProgramCode); err == nil {
			return nil, validationErr("PROGRAM_CODE_EXISTS",
				fmt.Sprintf("program code '%s' already exists", p.ProgramCode))
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	updated, err := s.repo.Update(ctx, code, &p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *programService) Delete(ctx context.Context, code string) error {
	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, code)
}
