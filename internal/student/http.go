package student

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"student-manager/internal/httputil"

	"github.com/go-chi/chi/v5"
)

// Handler is the REST adapter consumed by the desktop GUI client.
// It only ever talks to the Service; every rule lives there.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/students", h.Create)
	router.Get("/students", h.List)
	router.Get("/students/{id}", h.GetByID)
	router.Put("/students/{id}", h.Update)
	router.Delete("/students/{id}", h.Delete)
	router.Get("/students/number/{no}", h.GetByNumber)
	router.Delete("/students/number/{no}", h.DeleteByNumber)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var student Student
	if err := httputil.DecodeJSON(r, &student); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.logger.InfoContext(r.Context(), "creating student", "student_no", student.StudentNo)
	created, err := h.service.AddStudent(r.Context(), &student)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusCreated, created.DeriveAge())
}

// List serves the GUI table: the full listing with the optional
// sort-by-number toggle, or a search by name fragment or exact major.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		students []Student
		err      error
	)

	query := r.URL.Query()
	switch {
	case query.Get("name") != "":
		h.logger.InfoContext(r.Context(), "searching students by name")
		students, err = h.service.SearchStudentsByName(r.Context(), query.Get("name"))
	case query.Get("major") != "":
		h.logger.InfoContext(r.Context(), "searching students by major")
		students, err = h.service.GetStudentsByMajor(r.Context(), query.Get("major"))
	default:
		h.logger.InfoContext(r.Context(), "listing students", "sort", query.Get("sort"))
		students, err = h.service.ListStudents(r.Context(), Sort(query.Get("sort")))
	}
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if students == nil {
		students = []Student{}
	}
	for i := range students {
		students[i].DeriveAge()
	}
	httputil.RespondWithJSON(w, http.StatusOK, students)
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	student, err := h.service.GetStudentByID(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, student.DeriveAge())
}

func (h *Handler) GetByNumber(w http.ResponseWriter, r *http.Request) {
	student, err := h.service.GetStudentByNumber(r.Context(), chi.URLParam(r, "no"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, student.DeriveAge())
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	var student Student
	if err := httputil.DecodeJSON(r, &student); err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	student.ID = id

	h.logger.InfoContext(r.Context(), "updating student", "id", id)
	if err := h.service.UpdateStudent(r.Context(), &student); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, student.DeriveAge())
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid student ID")
		return
	}

	h.logger.InfoContext(r.Context(), "deleting student", "id", id)
	if err := h.service.DeleteStudent(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteByNumber(w http.ResponseWriter, r *http.Request) {
	no := chi.URLParam(r, "no")

	h.logger.InfoContext(r.Context(), "deleting student", "student_no", no)
	if err := h.service.DeleteStudentByNumber(r.Context(), no); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrStudentNotFound):
		httputil.RespondWithError(w, http.StatusNotFound, "student not found")
	case errors.Is(err, ErrDuplicateStudentNo):
		httputil.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidInput):
		httputil.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "internal error", "error", err)
		httputil.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
