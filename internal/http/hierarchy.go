package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Acheron02/Fatcheck-Web/internal/model"
	"github.com/Acheron02/Fatcheck-Web/internal/repository"
)

type gradeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sectionResponse struct {
	ID      string `json:"id"`
	GradeID string `json:"gradeId"`
	Name    string `json:"name"`
}

type studentResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Email           *string `json:"email"`
	SchoolStudentID *string `json:"schoolStudentId"`
	LRN             *string `json:"lrn"`
	GradeID         string  `json:"gradeId"`
	SectionID       string  `json:"sectionId"`
}

func mapStudentResponse(student model.Student) studentResponse {
	return studentResponse{
		ID:              student.ID,
		Name:            student.Name,
		Email:           student.Email,
		SchoolStudentID: student.SchoolStudentID,
		LRN:             student.LRN,
		GradeID:         student.GradeID,
		SectionID:       student.SectionID,
	}
}

type nameRequest struct {
	Name string `json:"name"`
}

func (s *Server) decodeName(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req nameRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return "", false
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "name_required")
		return "", false
	}
	return name, true
}

// Grades

func (s *Server) handleListGrades(w http.ResponseWriter, r *http.Request) {
	grades, err := s.store.ListGrades(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]gradeResponse, 0, len(grades))
	for _, grade := range grades {
		resp = append(resp, gradeResponse{ID: grade.ID, Name: grade.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetGrade(w http.ResponseWriter, r *http.Request) {
	gradeID := pathID(r, "gradeId")
	if gradeID == "" {
		writeError(w, http.StatusBadRequest, "invalid_grade_id")
		return
	}

	grade, err := s.store.GetGrade(r.Context(), gradeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "grade_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, gradeResponse{ID: grade.ID, Name: grade.Name})
}

func (s *Server) handleCreateGrade(w http.ResponseWriter, r *http.Request) {
	name, ok := s.decodeName(w, r)
	if !ok {
		return
	}

	grade := model.Grade{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateGrade(r.Context(), grade); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, gradeResponse{ID: grade.ID, Name: grade.Name})
}

func (s *Server) handleUpdateGrade(w http.ResponseWriter, r *http.Request) {
	gradeID := pathID(r, "gradeId")
	if gradeID == "" {
		writeError(w, http.StatusBadRequest, "invalid_grade_id")
		return
	}
	name, ok := s.decodeName(w, r)
	if !ok {
		return
	}

	updated, err := s.store.UpdateGrade(r.Context(), gradeID, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "grade_not_found")
		return
	}

	writeJSON(w, http.StatusOK, gradeResponse{ID: gradeID, Name: name})
}

func (s *Server) handleDeleteGrade(w http.ResponseWriter, r *http.Request) {
	gradeID := pathID(r, "gradeId")
	if gradeID == "" {
		writeError(w, http.StatusBadRequest, "invalid_grade_id")
		return
	}

	deleted, err := s.store.DeleteGrade(r.Context(), gradeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "grade_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Sections

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	gradeID := pathID(r, "gradeId")
	if gradeID == "" {
		writeError(w, http.StatusBadRequest, "invalid_grade_id")
		return
	}

	sections, err := s.store.ListSections(r.Context(), gradeID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]sectionResponse, 0, len(sections))
	for _, section := range sections {
		resp = append(resp, sectionResponse{ID: section.ID, GradeID: section.GradeID, Name: section.Name})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetSection(w http.ResponseWriter, r *http.Request) {
	gradeID := pathID(r, "gradeId")
	sectionID := pathID(r, "sectionId")
	if gradeID == "" || sectionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	section, err := s.store.GetSectionInGrade(r.Context(), gradeID, sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "section_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, sectionResponse{ID: section.ID, GradeID: section.GradeID, Name: section.Name})
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	gradeID := pathID(r, "gradeId")
	if gradeID == "" {
		writeError(w, http.StatusBadRequest, "invalid_grade_id")
		return
	}
	name, ok := s.decodeName(w, r)
	if !ok {
		return
	}

	if _, err := s.store.GetGrade(r.Context(), gradeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "grade_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	section := model.Section{
		ID:        uuid.NewString(),
		GradeID:   gradeID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateSection(r.Context(), section); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, sectionResponse{ID: section.ID, GradeID: section.GradeID, Name: section.Name})
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	gradeID := pathID(r, "gradeId")
	sectionID := pathID(r, "sectionId")
	if gradeID == "" || sectionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	name, ok := s.decodeName(w, r)
	if !ok {
		return
	}

	updated, err := s.store.UpdateSectionInGrade(r.Context(), gradeID, sectionID, name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "section_not_found")
		return
	}

	writeJSON(w, http.StatusOK, sectionResponse{ID: sectionID, GradeID: gradeID, Name: name})
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	gradeID := pathID(r, "gradeId")
	sectionID := pathID(r, "sectionId")
	if gradeID == "" || sectionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}

	deleted, err := s.store.DeleteSectionInGrade(r.Context(), gradeID, sectionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "section_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Students

// scopedSection validates the grade/section pair from the path; a section
// reached through the wrong grade is a 404, not a different section.
func (s *Server) scopedSection(w http.ResponseWriter, r *http.Request) (model.Section, bool) {
	gradeID := pathID(r, "gradeId")
	sectionID := pathID(r, "sectionId")
	if gradeID == "" || sectionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return model.Section{}, false
	}

	section, err := s.store.GetSectionInGrade(r.Context(), gradeID, sectionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "section_not_found")
			return model.Section{}, false
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return model.Section{}, false
	}
	return section, true
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	section, ok := s.scopedSection(w, r)
	if !ok {
		return
	}

	students, err := s.store.ListStudentsBySection(r.Context(), section.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]studentResponse, 0, len(students))
	for _, student := range students {
		resp = append(resp, mapStudentResponse(student))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	section, ok := s.scopedSection(w, r)
	if !ok {
		return
	}
	studentID := pathID(r, "studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}

	student, err := s.store.GetStudentInSection(r.Context(), section.ID, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "student_not_found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusOK, mapStudentResponse(student))
}

type studentRequest struct {
	Name            string  `json:"name"`
	Email           *string `json:"email,omitempty"`
	SchoolStudentID *string `json:"schoolStudentId,omitempty"`
	LRN             *string `json:"lrn,omitempty"`
}

func (req *studentRequest) normalize() {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = trimOptional(req.Email)
	req.SchoolStudentID = trimOptional(req.SchoolStudentID)
	req.LRN = trimOptional(req.LRN)
}

func trimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	section, ok := s.scopedSection(w, r)
	if !ok {
		return
	}

	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.normalize()
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name_required")
		return
	}

	now := time.Now().UTC()
	student := model.Student{
		ID:              uuid.NewString(),
		GradeID:         section.GradeID,
		SectionID:       section.ID,
		Name:            req.Name,
		Email:           req.Email,
		SchoolStudentID: req.SchoolStudentID,
		LRN:             req.LRN,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.store.CreateStudent(r.Context(), student); err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	writeJSON(w, http.StatusCreated, mapStudentResponse(student))
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	section, ok := s.scopedSection(w, r)
	if !ok {
		return
	}
	studentID := pathID(r, "studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}

	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	req.normalize()
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name_required")
		return
	}

	updated, err := s.store.UpdateStudentInSection(r.Context(), section.ID, studentID, repository.StudentUpdate{
		Name:            req.Name,
		Email:           req.Email,
		SchoolStudentID: req.SchoolStudentID,
		LRN:             req.LRN,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	section, ok := s.scopedSection(w, r)
	if !ok {
		return
	}
	studentID := pathID(r, "studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}

	deleted, err := s.store.DeleteStudentInSection(r.Context(), section.ID, studentID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "student_not_found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
