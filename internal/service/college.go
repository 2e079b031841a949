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

const (
	maxCodeLen  = 20
	maxLabelLen = 50
)

// ListParams carries the common search/sort/pagination parameters for the
// college and program listings.
type ListParams struct {
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
	SearchTerm string
}

func (p *ListParams) normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

// CollegeListResult is the service-level DTO for paginated colleges.
type CollegeListResult struct {
	Items    []model.College `json:"data"`
	Total    int             `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// CollegeService defines the use cases for managing colleges.
type CollegeService interface {
	Create(ctx context.Context, c model.College) (*model.College, error)
	Get(ctx context.Context, code string) (*model.College, error)
	List(ctx context.Context, p ListParams) (*CollegeListResult, error)
	Update(ctx context.Context, code string, c model.College) (*model.College, error)
	Delete(ctx context.Context, code string) error
}

type collegeService struct {
	repo     repository.CollegeRepository
	programs repository.ProgramRepository
}

// NewCollegeService constructs a new CollegeService.
func NewCollegeService(repo repository.CollegeRepository, programs repository.ProgramRepository) CollegeService {
	return &collegeService{repo: repo, programs: programs}
}

func validateCollege(c *model.College) error {
	c.CollegeCode = strings.TrimSpace(c.CollegeCode)
	c.CollegeName = strings.TrimSpace(c.CollegeName)
	if c.CollegeCode == "" {
		return validationErr("EMPTY_COLLEGE_CODE", "college code cannot be empty")
	}
	if len(c.CollegeCode) > maxCodeLen {
		return validationErr("COLLEGE_CODE_TOO_LONG", "college code cannot exceed 20 characters")
	}
	if c.CollegeName == "" {
		return validationErr("EMPTY_COLLEGE_NAME", "college name cannot be empty")
	}
	if len(c.CollegeName) > maxLabelLen {
		return validationErr("COLLEGE_NAME_TOO_LONG", "college name cannot exceed 50 characters")
	}
	return nil
}

func (s *collegeService) Create(ctx context.Context, c model.College) (*model.College, error) {
	if err := validateCollege(&c); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByCode(ctx, c.CollegeCode); err == nil {
		return nil, validationErr("COLLEGE_CODE_EXISTS",
			fmt.Sprintf("college code '%s' already exists", c.CollegeCode))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	return s.repo.Create(ctx, &c)
}

func (s *collegeService) Get(ctx context.Context, code string) (*model.College, error) {
	c, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *collegeService) List(ctx context.Context, p ListParams) (*CollegeListResult, error) {
	p.normalize()
	res, err := s.repo.Search(ctx, repository.CollegeQuery{
		SearchTerm: p.SearchTerm,
		SortBy:     p.SortBy,
		SortOrder:  p.SortOrder,
		PageQuery:  repository.PageQuery{Limit: p.PageSize, Offset: (p.Page - 1) * p.PageSize},
	})
	if err != nil {
		return nil, err
	}
	return &CollegeListResult{Items: res.Items, Total: res.Total, Page: p.Page, PageSize: p.PageSize}, nil
}

func (s *collegeService) Update(ctx context.Context, code string, c model.College) (*model.College, error) {
	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := validateCollege(&c); err != nil {
		return nil, err
	}
	if c.CollegeCode != existing.CollegeCode {
		if _, err := s.repo.FindByCode(ctx, c.CollegeCode); err == nil {
			return nil, validationErr("COLLEGE_CODE_EXISTS",
				fmt.Sprintf("college code '%s' already exists", c.CollegeCode))
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
	}
	updated, err := s.repo.Update(ctx, code, &c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *collegeService) Delete(ctx context.Context, code string) error {
	if _, err := s.repo.FindByCode(ctx, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	inUse, err := s.programs.ExistsForCollege(ctx, code)
	if err != nil {
		return err
	}
	if inUse {
		return validationErr("COLLEGE_IN_USE",
			fmt.Sprintf("college '%s' still has programs", code))
	}
	return s.repo.Delete(ctx, code)
}
