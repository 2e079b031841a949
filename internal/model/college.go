package model

// College represents an academic college that programs belong to.
type College struct {
	CollegeCode string `json:"college_code"`
	CollegeName string `json:"college_name"`
}

// Program represents a degree program offered by a college.
type Program struct {
	ProgramCode string `json:"program_code"`
	ProgramName string `json:"program_name"`
	CollegeCode string `json:"college_code"`
}
