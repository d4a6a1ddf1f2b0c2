// Package student contains the HTTP handlers for the Student resource.
//
// Each exported function is a factory: it receives the service once at
// startup and returns the http.HandlerFunc the router calls on every
// request. The returned closure keeps the service in scope.
//
//	router.HandleFunc("POST /api/students", student.New(svc))
//
// Handlers own the translation between HTTP and the service: decoding
// and validating bodies, parsing {id}, and mapping service errors onto
// status codes (not found → 404, anything else → 500).
package student

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/students-service/internal/http/middleware"
	"github.com/aanand-mishra/students-service/internal/storage"
	"github.com/aanand-mishra/students-service/internal/types"
	"github.com/aanand-mishra/students-service/internal/utils/response"
)

// Service is the subset of service.StudentService the handlers need.
type Service interface {
	GetAllStudents(ctx context.Context) ([]types.Student, error)
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)
	CreateStudent(ctx context.Context, draft types.Student) (types.Student, error)
	UpdateStudent(ctx context.Context, id int64, draft types.Student) (types.Student, error)
	DeleteStudent(ctx context.Context, id int64) error
}

var (
	errEmptyBody = errors.New("request body is empty")
	errInvalidID = errors.New("invalid id: must be a positive integer")
	errInternal  = errors.New("internal server error")
	validate     = newValidator()
)

// newValidator reports failing fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Register wires every student route onto router.
//
//	POST   /api/students        → create a new student
//	GET    /api/students        → list all students
//	GET    /api/students/{id}   → get one student by id
//	PUT    /api/students/{id}   → replace a student
//	DELETE /api/students/{id}   → delete a student
func Register(router *http.ServeMux, svc Service) {
	router.HandleFunc("POST /api/students", New(svc))
	router.HandleFunc("GET /api/students", GetList(svc))
	router.HandleFunc("GET /api/students/{id}", GetByID(svc))
	router.HandleFunc("PUT /api/students/{id}", Update(svc))
	router.HandleFunc("DELETE /api/students/{id}", Delete(svc))
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/students.
//
// Request body:
//
//	{ "name": "Jane Smith", "password": "securePass",
//	  "bornDate": "1995-05-20", "bornTime": "14:45" }
//
// 201 Created with the stored student, including its new id. Any id in
// the body is ignored.
//
// 400 for an empty or malformed body or a missing required field.
// ─────────────────────────────────────────────────────────────────────────────
func New(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student", requestID(r))

		draft, ok := decodeDraft(w, r)
		if !ok {
			return
		}

		created, err := svc.CreateStudent(r.Context(), draft)
		if err != nil {
			writeServiceError(w, r, "error creating student", err)
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID), requestID(r))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/students/{id}.
//
// 200 with the student, 400 for a bad id, 404 when no student exists.
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("getting a student", slog.Int64("id", id), requestID(r))

		student, err := svc.GetStudentByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, r, "error getting student", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, student)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/students.
//
// 200 with a JSON array, [] (never null) when there are no students.
// ─────────────────────────────────────────────────────────────────────────────
func GetList(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students", requestID(r))

		students, err := svc.GetAllStudents(r.Context())
		if err != nil {
			writeServiceError(w, r, "error getting students", err)
			return
		}
		if students == nil {
			students = []types.Student{}
		}

		response.WriteJSON(w, http.StatusOK, students)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PUT /api/students/{id}.
//
// Replaces every field of the student. Fields left out of the body are
// cleared, not kept. The path id always wins over an id in the body.
//
// 200 with the updated student, 400 for a bad id or body, 404 when no
// student exists at id.
// ─────────────────────────────────────────────────────────────────────────────
func Update(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id), requestID(r))

		draft, ok := decodeDraft(w, r)
		if !ok {
			return
		}

		updated, err := svc.UpdateStudent(r.Context(), id, draft)
		if err != nil {
			writeServiceError(w, r, "error updating student", err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id), requestID(r))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/students/{id}.
//
// 204 No Content on success, 400 for a bad id, 404 when no student
// exists at id.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("deleting a student", slog.Int64("id", id), requestID(r))

		if err := svc.DeleteStudent(r.Context(), id); err != nil {
			writeServiceError(w, r, "error deleting student", err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id), requestID(r))
		response.NoContent(w)
	}
}

// pathID parses the {id} segment. On failure it writes a 400 and
// returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		response.WriteError(w, http.StatusBadRequest, errInvalidID)
		return 0, false
	}
	return id, true
}

// decodeDraft decodes and validates the request body. On failure it
// writes a 400 and returns false.
func decodeDraft(w http.ResponseWriter, r *http.Request) (types.Student, bool) {
	var draft types.Student

	err := json.NewDecoder(r.Body).Decode(&draft)
	if errors.Is(err, io.EOF) {
		response.WriteError(w, http.StatusBadRequest, errEmptyBody)
		return types.Student{}, false
	}
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err)
		return types.Student{}, false
	}

	if err := validate.Struct(draft); err != nil {
		var validateErrs validator.ValidationErrors
		if errors.As(err, &validateErrs) {
			response.WriteJSON(w, http.StatusBadRequest, response.ValidationError(validateErrs))
		} else {
			response.WriteError(w, http.StatusBadRequest, err)
		}
		return types.Student{}, false
	}

	return draft, true
}

// writeServiceError maps a service error onto a response. Storage
// faults are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if storage.IsNotFound(err) {
		response.WriteError(w, http.StatusNotFound, err)
		return
	}

	slog.Error(msg, slog.String("error", err.Error()), requestID(r))
	response.WriteError(w, http.StatusInternalServerError, errInternal)
}

func requestID(r *http.Request) slog.Attr {
	return slog.String("request_id", middleware.RequestIDFrom(r.Context()))
}
