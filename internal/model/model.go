package model

import "time"

// Roles assignable at registration. Comparison elsewhere is
// case-insensitive; these are the stored spellings.
const (
	RoleAdmin   = "Admin"
	RoleTeacher = "Teacher"
	RoleNurse   = "Nurse"
)

func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleTeacher || role == RoleNurse
}

type User struct {
	ID           string
	Email        string
	Username     string
	Role         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Grade struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Section struct {
	ID        string
	GradeID   string
	Name      string
	CreatedAt time.Time
}

type Student struct {
	ID              string
	GradeID         string
	SectionID       string
	Name            string
	Email           *string
	SchoolStudentID *string
	LRN             *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// HealthRecord is not a database entity: its identity is the filename under
// the student's directory, and its metadata is derived from the filesystem
// at read time.
type HealthRecord struct {
	Filename string
	Type     string
	Date     time.Time
}
