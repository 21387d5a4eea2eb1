package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Acheron02/Fatcheck-Web/internal/auth"
	"github.com/Acheron02/Fatcheck-Web/internal/config"
	"github.com/Acheron02/Fatcheck-Web/internal/records"
	"github.com/Acheron02/Fatcheck-Web/internal/repository"
)

type Server struct {
	cfg     config.Config
	store   *repository.Store
	records *records.Store
	guard   *auth.Guard
}

func NewServer(cfg config.Config, store *repository.Store, recordStore *records.Store, denylist auth.Denylist) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		records: recordStore,
		guard:   auth.NewGuard(cfg.JWTSecret, denylist),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/auth/login", s.handleLogin)
	r.With(s.requireAuth()).Post("/api/auth/logout", s.handleLogout)
	r.With(s.requireAuth()).Get("/api/auth/me", s.handleGetMe)
	r.Get("/api/validate", s.handleValidate)

	r.Route("/api/auth/register", func(r chi.Router) {
		r.With(s.requireAuth(adminOnly...)).Get("/", s.handleListUsers)
		r.With(s.requireAuth(adminOnly...)).Post("/", s.handleRegister)
		r.With(s.requireAuth(adminOnly...)).Put("/{userId}", s.handleUpdateUser)
		r.With(s.requireAuth(adminOnly...)).Delete("/{userId}", s.handleDeleteUser)
	})

	r.With(s.requireAuth()).Put("/api/profile", s.handleUpdateProfile)
	r.With(s.requireAuth()).Put("/api/profile/password", s.handleUpdatePassword)

	// Hierarchy reads stay public; only writes carry the role contract.
	r.Route("/api/gradeLevels", func(r chi.Router) {
		r.Get("/", s.handleListGrades)
		r.With(s.requireAuth(adminOnly...)).Post("/", s.handleCreateGrade)
		r.Get("/{gradeId}", s.handleGetGrade)
		r.With(s.requireAuth(adminOrNurse...)).Put("/{gradeId}", s.handleUpdateGrade)
		r.With(s.requireAuth(adminOnly...)).Delete("/{gradeId}", s.handleDeleteGrade)

		r.Get("/{gradeId}/sections", s.handleListSections)
		r.With(s.requireAuth(adminOrNurse...)).Post("/{gradeId}/sections", s.handleCreateSection)
		r.Get("/{gradeId}/sections/{sectionId}", s.handleGetSection)
		r.With(s.requireAuth(adminOrNurse...)).Put("/{gradeId}/sections/{sectionId}", s.handleUpdateSection)
		r.With(s.requireAuth(adminOrNurse...)).Delete("/{gradeId}/sections/{sectionId}", s.handleDeleteSection)

		r.Get("/{gradeId}/sections/{sectionId}/students", s.handleListStudents)
		r.With(s.requireAuth(adminOrNurse...)).Post("/{gradeId}/sections/{sectionId}/students", s.handleCreateStudent)
		r.Get("/{gradeId}/sections/{sectionId}/students/{studentId}", s.handleGetStudent)
		r.With(s.requireAuth(adminOrNurse...)).Put("/{gradeId}/sections/{sectionId}/students/{studentId}", s.handleUpdateStudent)
		r.With(s.requireAuth(adminOrNurse...)).Delete("/{gradeId}/sections/{sectionId}/students/{studentId}", s.handleDeleteStudent)
	})

	r.With(s.requireAuth()).Get("/api/students/{studentId}/records", s.handleListRecords)
	r.With(s.requireAuth()).Get("/api/students/{studentId}/records/files/{fileName}", s.handleServeRecord)

	return r
}

var (
	adminOnly    = []string{"admin"}
	adminOrNurse = []string{"admin", "nurse"}
)

// requireAuth routes every protected endpoint through the one guard
// callable; with no roles it only authenticates.
func (s *Server) requireAuth(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := s.guard.Authorize(r.Context(), r.Header.Get("Authorization"), roles...)
			if err != nil {
				writeAuthError(w, err)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

type claimsKey struct{}

func claimsFromContext(ctx context.Context) *auth.Claims {
	value := ctx.Value(claimsKey{})
	claims, _ := value.(*auth.Claims)
	return claims
}

func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, auth.ErrMalformed):
		writeError(w, http.StatusUnauthorized, "malformed_token")
	case errors.Is(err, auth.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	default:
		writeError(w, http.StatusInternalServerError, "server_error")
	}
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

// pathID pulls a uuid path parameter; anything else is treated as a
// malformed identifier by the caller.
func pathID(r *http.Request, key string) string {
	id := chi.URLParam(r, key)
	if uuid.Validate(id) != nil {
		return ""
	}
	return id
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
