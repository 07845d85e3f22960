package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/question"
)

// questionService defines the minimal interface needed by QuestionHandler.
type questionService interface {
	Ask(ctx context.Context, userID uuid.UUID, input question.AskInput) (*question.AskResult, error)
	Get(ctx context.Context, questionID uuid.UUID) (*question.QuestionDetail, error)
	List(ctx context.Context, input question.ListInput) ([]*domain.Question, int, error)
	Catch(ctx context.Context, userID uuid.UUID, theme string) (*domain.Question, error)
	Heart(ctx context.Context, userID, questionID uuid.UUID) (*question.HeartResult, error)
	Close(ctx context.Context, actor *domain.User, questionID uuid.UUID) (*domain.Question, error)
	Delete(ctx context.Context, actor *domain.User, questionID uuid.UUID) error
}

// QuestionHandler serves the question endpoints.
type QuestionHandler struct {
	svc questionService
	log *slog.Logger
}

// NewQuestionHandler creates a QuestionHandler.
func NewQuestionHandler(svc questionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{svc: svc, log: logger.With("handler", "question")}
}

type askRequest struct {
	Theme string `json:"theme"`
	Text  string `json:"text"`
}

type askResponse struct {
	Question questionResponse `json:"question"`
	Quota    quotaResponse    `json:"quota"`
}

// Ask handles POST /questions.
func (h *QuestionHandler) Ask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Ask(r.Context(), userID, question.AskInput{
		Theme: req.Theme,
		Text:  req.Text,
	})
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, askResponse{
		Question: toQuestionResponse(result.Question),
		Quota:    toQuotaResponse(result.Quota),
	})
}

type questionListResponse struct {
	Questions []questionResponse `json:"questions"`
	Total     int                `json:"total"`
}

// List handles GET /questions.
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	input := question.ListInput{
		Theme:  r.URL.Query().Get("theme"),
		Status: domain.QuestionStatus(r.URL.Query().Get("status")),
		Limit:  queryInt(r, "limit", 0),
		Offset: queryInt(r, "offset", 0),
	}

	questions, total, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, questionListResponse{
		Questions: toQuestionResponses(questions),
		Total:     total,
	})
}

type questionDetailResponse struct {
	Question questionResponse `json:"question"`
	Answers  []answerResponse `json:"answers"`
}

// Get handles GET /questions/{id}.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.svc.Get(r.Context(), questionID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, questionDetailResponse{
		Question: toQuestionResponse(detail.Question),
		Answers:  toAnswerResponses(detail.Answers),
	})
}

// Catch handles GET /questions/catch. It picks a random open question from
// another author, optionally narrowed to a theme.
func (h *QuestionHandler) Catch(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	q, err := h.svc.Catch(r.Context(), userID, r.URL.Query().Get("theme"))
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}

type heartResponse struct {
	Question questionResponse `json:"question"`
	Hearted  bool             `json:"hearted"`
}

// Heart handles POST /questions/{id}/heart.
func (h *QuestionHandler) Heart(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	questionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	result, err := h.svc.Heart(r.Context(), userID, questionID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, heartResponse{
		Question: toQuestionResponse(result.Question),
		Hearted:  result.Hearted,
	})
}

// Close handles POST /questions/{id}/close.
func (h *QuestionHandler) Close(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromCtx(w, r)
	if !ok {
		return
	}
	questionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	q, err := h.svc.Close(r.Context(), actor, questionID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}

// Delete handles DELETE /questions/{id}.
func (h *QuestionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromCtx(w, r)
	if !ok {
		return
	}
	questionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), actor, questionID); err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
