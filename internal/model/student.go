package model

// Student represents a student record.
// This is a pure domain model with no database-specific dependencies or tags.
// PhotoPath is the avatar pointer: an opaque object-store key, nil when the
// student has no avatar.
type Student struct {
	IDNumber    string  `json:"id_number"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	YearLevel   int     `json:"year_level"`
	Gender      string  `json:"gender"`
	ProgramCode string  `json:"program_code"`
	PhotoPath   *string `json:"photo_path"`
}
