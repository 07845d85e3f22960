package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/baloria-app/baloria-backend/internal/domain"
	"github.com/baloria-app/baloria-backend/internal/service/answer"
)

// answerService defines the minimal interface needed by AnswerHandler.
type answerService interface {
	Create(ctx context.Context, userID uuid.UUID, input answer.CreateInput) (*answer.CreateResult, error)
	ListByQuestion(ctx context.Context, questionID uuid.UUID) ([]*domain.Answer, error)
	Delete(ctx context.Context, actor *domain.User, answerID uuid.UUID) error
}

// AnswerHandler serves the answer endpoints.
type AnswerHandler struct {
	svc answerService
	log *slog.Logger
}

// NewAnswerHandler creates an AnswerHandler.
func NewAnswerHandler(svc answerService, logger *slog.Logger) *AnswerHandler {
	return &AnswerHandler{svc: svc, log: logger.With("handler", "answer")}
}

type createAnswerRequest struct {
	Text string `json:"text"`
}

type createAnswerResponse struct {
	Answer answerResponse `json:"answer"`
	Quota  quotaResponse  `json:"quota"`
}

// Create handles POST /questions/{id}/answers.
func (h *AnswerHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	questionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req createAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Create(r.Context(), userID, answer.CreateInput{
		QuestionID: questionID,
		Text:       req.Text,
	})
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, createAnswerResponse{
		Answer: toAnswerResponse(result.Answer),
		Quota:  toQuotaResponse(result.Quota),
	})
}

// ListByQuestion handles GET /questions/{id}/answers.
func (h *AnswerHandler) ListByQuestion(w http.ResponseWriter, r *http.Request) {
	questionID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	answers, err := h.svc.ListByQuestion(r.Context(), questionID)
	if err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]answerResponse{"answers": toAnswerResponses(answers)})
}

// Delete handles DELETE /answers/{id}.
func (h *AnswerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromCtx(w, r)
	if !ok {
		return
	}
	answerID, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), actor, answerID); err != nil {
		handleServiceError(h.log, w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
