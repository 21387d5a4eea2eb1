package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Acheron02/Fatcheck-Web/internal/model"
	"github.com/Acheron02/Fatcheck-Web/internal/records"

	"github.com/go-chi/chi/v5"
)

type recordResponse struct {
	ID       string `json:"_id"`
	Filename string `json:"filename"`
	Type     string `json:"type"`
	Date     string `json:"date"`
	URL      string `json:"url"`
}

func mapRecordResponse(studentID string, record model.HealthRecord) recordResponse {
	return recordResponse{
		ID:       fmt.Sprintf("%s-%s", studentID, record.Filename),
		Filename: record.Filename,
		Type:     record.Type,
		Date:     record.Date.Format("2006-01-02T15:04:05Z07:00"),
		URL:      fmt.Sprintf("/api/students/%s/records/files/%s", studentID, record.Filename),
	}
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	studentID := pathID(r, "studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}

	list, err := s.records.List(studentID)
	if err != nil {
		if errors.Is(err, records.ErrInvalidName) {
			writeError(w, http.StatusBadRequest, "invalid_student_id")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error")
		return
	}

	resp := make([]recordResponse, 0, len(list))
	for _, record := range list {
		resp = append(resp, mapRecordResponse(studentID, record))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleServeRecord(w http.ResponseWriter, r *http.Request) {
	studentID := pathID(r, "studentId")
	if studentID == "" {
		writeError(w, http.StatusBadRequest, "invalid_student_id")
		return
	}
	fileName := chi.URLParam(r, "fileName")

	file, record, err := s.records.Open(studentID, fileName)
	if err != nil {
		switch {
		case errors.Is(err, records.ErrInvalidName):
			writeError(w, http.StatusBadRequest, "invalid_file_name")
		case errors.Is(err, records.ErrNotFound):
			writeError(w, http.StatusNotFound, "record_not_found")
		default:
			writeError(w, http.StatusInternalServerError, "server_error")
		}
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", records.ContentType(record.Filename))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", record.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, file)
}
