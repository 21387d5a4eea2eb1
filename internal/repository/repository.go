package repository

import (
	"context"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Acheron02/Fatcheck-Web/internal/model"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Users

func (s *Store) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, username, role, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) GetUserByID(ctx context.Context, userID string) (model.User, error) {
	var user model.User
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, username, role, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, userID)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) CreateUser(ctx context.Context, user model.User) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, email, username, role, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Email, user.Username, user.Role, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return err
}

func (s *Store) ListUsers(ctx context.Context, limit int) ([]model.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, email, username, role, password_hash, created_at, updated_at
		FROM users
		ORDER BY created_at
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var user model.User
		if err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.Username,
			&user.Role,
			&user.PasswordHash,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

type UserUpdate struct {
	Email        *string
	Username     *string
	Role         *string
	PasswordHash *string
}

func (s *Store) UpdateUser(ctx context.Context, userID string, update UserUpdate) (model.User, error) {
	setClauses := ""
	args := []interface{}{userID}

	appendClause := func(column string, value interface{}) {
		args = append(args, value)
		if setClauses != "" {
			setClauses += ", "
		}
		setClauses += column + " = $" + strconv.Itoa(len(args))
	}

	if update.Email != nil {
		appendClause("email", *update.Email)
	}
	if update.Username != nil {
		appendClause("username", *update.Username)
	}
	if update.Role != nil {
		appendClause("role", *update.Role)
	}
	if update.PasswordHash != nil {
		appendClause("password_hash", *update.PasswordHash)
	}
	appendClause("updated_at", time.Now().UTC())

	var user model.User
	row := s.pool.QueryRow(ctx, `
		UPDATE users SET `+setClauses+`
		WHERE id = $1
		RETURNING id, email, username, role, password_hash, created_at, updated_at
	`, args...)
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.Role,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

func (s *Store) DeleteUser(ctx context.Context, userID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Grades

func (s *Store) ListGrades(ctx context.Context) ([]model.Grade, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, created_at
		FROM grades
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grades []model.Grade
	for rows.Next() {
		var grade model.Grade
		if err := rows.Scan(&grade.ID, &grade.Name, &grade.CreatedAt); err != nil {
			return nil, err
		}
		grades = append(grades, grade)
	}
	return grades, rows.Err()
}

func (s *Store) GetGrade(ctx context.Context, gradeID string) (model.Grade, error) {
	var grade model.Grade
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, created_at
		FROM grades
		WHERE id = $1
	`, gradeID)
	err := row.Scan(&grade.ID, &grade.Name, &grade.CreatedAt)
	return grade, err
}

func (s *Store) CreateGrade(ctx context.Context, grade model.Grade) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO grades (id, name, created_at)
		VALUES ($1, $2, $3)
	`, grade.ID, grade.Name, grade.CreatedAt)
	return err
}

func (s *Store) UpdateGrade(ctx context.Context, gradeID, name string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `UPDATE grades SET name = $1 WHERE id = $2`, name, gradeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteGrade(ctx context.Context, gradeID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM grades WHERE id = $1`, gradeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Sections. Lookups are scoped by the owning grade id: a section reached
// through the wrong grade behaves as not found.

func (s *Store) ListSections(ctx context.Context, gradeID string) ([]model.Section, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, grade_id, name, created_at
		FROM sections
		WHERE grade_id = $1
		ORDER BY created_at
	`, gradeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []model.Section
	for rows.Next() {
		var section model.Section
		if err := rows.Scan(&section.ID, &section.GradeID, &section.Name, &section.CreatedAt); err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

func (s *Store) GetSectionInGrade(ctx context.Context, gradeID, sectionID string) (model.Section, error) {
	var section model.Section
	row := s.pool.QueryRow(ctx, `
		SELECT id, grade_id, name, created_at
		FROM sections
		WHERE id = $1 AND grade_id = $2
	`, sectionID, gradeID)
	err := row.Scan(&section.ID, &section.GradeID, &section.Name, &section.CreatedAt)
	return section, err
}

func (s *Store) CreateSection(ctx context.Context, section model.Section) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO sections (id, grade_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`, section.ID, section.GradeID, section.Name, section.CreatedAt)
	return err
}

func (s *Store) UpdateSectionInGrade(ctx context.Context, gradeID, sectionID, name string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE sections SET name = $1
		WHERE id = $2 AND grade_id = $3
	`, name, sectionID, gradeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteSectionInGrade(ctx context.Context, gradeID, sectionID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM sections
		WHERE id = $1 AND grade_id = $2
	`, sectionID, gradeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// Students, scoped by the owning section id.

func (s *Store) ListStudentsBySection(ctx context.Context, sectionID string) ([]model.Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, grade_id, section_id, name, email, school_student_id, lrn, created_at, updated_at
		FROM students
		WHERE section_id = $1
		ORDER BY created_at
	`, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var student model.Student
		if err := rows.Scan(
			&student.ID,
			&student.GradeID,
			&student.SectionID,
			&student.Name,
			&student.Email,
			&student.SchoolStudentID,
			&student.LRN,
			&student.CreatedAt,
			&student.UpdatedAt,
		); err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}

func (s *Store) GetStudentInSection(ctx context.Context, sectionID, studentID string) (model.Student, error) {
	var student model.Student
	row := s.pool.QueryRow(ctx, `
		SELECT id, grade_id, section_id, name, email, school_student_id, lrn, created_at, updated_at
		FROM students
		WHERE id = $1 AND section_id = $2
	`, studentID, sectionID)
	err := row.Scan(
		&student.ID,
		&student.GradeID,
		&student.SectionID,
		&student.Name,
		&student.Email,
		&student.SchoolStudentID,
		&student.LRN,
		&student.CreatedAt,
		&student.UpdatedAt,
	)
	return student, err
}

func (s *Store) CreateStudent(ctx context.Context, student model.Student) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO students (id, grade_id, section_id, name, email, school_student_id, lrn, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, student.ID, student.GradeID, student.SectionID, student.Name, student.Email, student.SchoolStudentID, student.LRN, student.CreatedAt, student.UpdatedAt)
	return err
}

type StudentUpdate struct {
	Name            string
	Email           *string
	SchoolStudentID *string
	LRN             *string
}

func (s *Store) UpdateStudentInSection(ctx context.Context, sectionID, studentID string, update StudentUpdate) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE students
		SET name = $1, email = $2, school_student_id = $3, lrn = $4, updated_at = $5
		WHERE id = $6 AND section_id = $7
	`, update.Name, update.Email, update.SchoolStudentID, update.LRN, time.Now().UTC(), studentID, sectionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (s *Store) DeleteStudentInSection(ctx context.Context, sectionID, studentID string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM students
		WHERE id = $1 AND section_id = $2
	`, studentID, sectionID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
