package repository

import (
	"context"

	"ssisapi/internal/model"
)

// CollegeQuery holds search and sort parameters for listing colleges.
type CollegeQuery struct {
	SearchTerm string
	SortBy     string
	SortOrder  string

	PageQuery
}

// CollegeRepository defines data access for colleges.
type CollegeRepository interface {
	Create(ctx context.Context, c *model.College) (*model.College, error)
	FindByCode(ctx context.Context, code string) (*model.College, error)
	Search(ctx context.Context, q CollegeQuery) (*PageResult[model.College], error)
	Update(ctx context.Context, code string, c *model.College) (*model.College, error)
	// Delete removes a college by code; nil if the row did not exist.
	Delete(ctx context.Context, code string) error
}

// ProgramQuery holds search, filter, and sort parameters for listing programs.
type ProgramQuery struct {
	SearchTerm  string
	CollegeCode *string
	SortBy      string
	SortOrder   string

	PageQuery
}

// ProgramRepository defines data access for programs.
type ProgramRepository interface {
	Create(ctx context.Context, p *model.Program) (*model.Program, error)
	FindByCode(ctx context.Context, code string) (*model.Program, error)
	Search(ctx context.Context, q ProgramQuery) (*PageResult[model.Program], error)
	Update(ctx context.Context, code string, p *model.Program) (*model.Program, error)
	Delete(ctx context.Context, code string) error
	// ExistsForCollege reports whether any program references the college.
	ExistsForCollege(ctx context.Context, collegeCode string) (bool, error)
}
