package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"quiz-session-service/internal/app"
	"quiz-session-service/internal/domain"
)

// Handler wires the session use cases to the REST surface.
type Handler struct {
	service *app.SessionService
}

// NewRouter builds the HTTP routing tree. Everything under /quiz requires the
// bearer token; /health stays open for liveness probes.
func NewRouter(service *app.SessionService, token string) http.Handler {
	h := &Handler{service: service}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/quiz", func(r chi.Router) {
		r.Use(RequireBearer(token))
		r.Post("/sessions", h.createSession)
		r.Get("/sessions/{sessionID}", h.sessionState)
		r.Post("/sessions/{sessionID}/next", h.nextQuestion)
		r.Post("/sessions/{sessionID}/answer", h.submitAnswer)
		r.Post("/sessions/{sessionID}/finish", h.finishSession)
		r.Get("/sessions/{sessionID}/results", h.results)
		r.Get("/sessions/{sessionID}/watch", h.watchSession)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, map[string]bool{"ok": true}, http.StatusOK)
}

type createSessionRequest struct {
	QuizID string `json:"quizId"`
	Mode   string `json:"mode"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.QuizID == "" {
		respondError(w, "quizId is required", http.StatusBadRequest)
		return
	}
	mode, ok := domain.ParseMode(req.Mode)
	if !ok {
		respondDomainError(w, domain.ErrInvalidMode)
		return
	}

	info, err := h.service.Create(r.Context(), req.QuizID, mode)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, info, http.StatusCreated)
}

func (h *Handler) sessionState(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.State(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, snapshot, http.StatusOK)
}

func (h *Handler) nextQuestion(w http.ResponseWriter, r *http.Request) {
	next, err := h.service.NextQuestion(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, next, http.StatusOK)
}

type submitAnswerRequest struct {
	QuestionID string `json:"questionId"`
	Selected   []int  `json:"selected"`
}

func (h *Handler) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	outcome, err := h.service.SubmitAnswer(r.Context(), chi.URLParam(r, "sessionID"), req.QuestionID, req.Selected)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, outcome, http.StatusOK)
}

func (h *Handler) finishSession(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Finish(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, summary, http.StatusOK)
}

func (h *Handler) results(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Results(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, results, http.StatusOK)
}

func respondJSON(w http.ResponseWriter, payload any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, map[string]string{"error": message}, status)
}

func respondDomainError(w http.ResponseWriter, err error) {
	respondError(w, err.Error(), statusForError(err))
}

// statusForError maps core error kinds to HTTP status codes. The core stays
// transport-agnostic; this is the only place the mapping lives.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrQuizNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuestionMismatch), errors.Is(err, domain.ErrAlreadyAnswered):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyFinished),
		errors.Is(err, domain.ErrNoActiveQuestion),
		errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrIndexOutOfRange),
		errors.Is(err, domain.ErrInvalidMode):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
