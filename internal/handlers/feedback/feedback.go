package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"feedback-tool/internal/contextutil"
	"feedback-tool/internal/feedback"
	"feedback-tool/internal/kafka"
	"feedback-tool/internal/summary"
	myErr "feedback-tool/internal/types/errors"
	"feedback-tool/internal/types/response"
)

// MaxBodyBytes - предел тела запроса на создание отзыва
const MaxBodyBytes = 100 << 10

type FeedbackHandler struct {
	Logger             *zap.SugaredLogger
	FeedbackRepository feedback.FeedbackRepo
	Summarizer         summary.Summarizer
	Events             kafka.EventProducer
	Now                func() time.Time
}

func NewFeedbackHandler(
	l *zap.SugaredLogger,
	repo feedback.FeedbackRepo,
	summarizer summary.Summarizer,
	events kafka.EventProducer,
) *FeedbackHandler {
	if events == nil {
		events = kafka.NopProducer{}
	}

	return &FeedbackHandler{
		Logger:             l,
		FeedbackRepository: repo,
		Summarizer:         summarizer,
		Events:             events,
		Now:                time.Now,
	}
}

// createRequest - text намеренно interface{}: число или null
// должны давать ту же ошибку, что и отсутствующее поле
type createRequest struct {
	Text interface{} `json:"text"`
}

type summaryResponse struct {
	Summary       string `json:"summary"`
	FeedbackCount int    `json:"feedbackCount"`
}

// Create - POST /api/feedback
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			myErr.SendErrorTo(w, myErr.ErrTextRequired, http.StatusBadRequest, h.Logger)
		case errors.As(err, &maxBytesErr):
			myErr.SendErrorTo(w, myErr.ErrBodyTooLarge, http.StatusRequestEntityTooLarge, h.Logger)
		default:
			myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		}

		return
	}

	raw, ok := req.Text.(string)
	if !ok || raw == "" {
		myErr.SendErrorTo(w, myErr.ErrTextRequired, http.StatusBadRequest, h.Logger)

		return
	}

	text, err := feedback.Validate(raw)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusBadRequest, h.Logger)

		return
	}

	created, err := h.FeedbackRepository.Create(r.Context(), text)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrCreateFailed, http.StatusInternalServerError, h.Logger)

		return
	}

	wordCount := feedback.CountWords(text)
	h.publish(r, kafka.NewCreatedEvent(created.ID, wordCount, h.Now()))

	response.SendSuccessTo(w, created, http.StatusCreated, h.Logger)

	h.Logger.Infow("Feedback created",
		"id", created.ID,
		"word_count", wordCount,
		"request_id", requestID(r),
	)
}

// List - GET /api/feedback, новые первыми
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.FeedbackRepository.List(r.Context())
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrFetchFailed, http.StatusInternalServerError, h.Logger)

		return
	}

	if items == nil {
		items = []*feedback.Feedback{}
	}

	response.SendSuccessTo(w, items, http.StatusOK, h.Logger)
}

// GetByID - GET /api/feedback/{id}
func (h *FeedbackHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	item, err := h.FeedbackRepository.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFoundFeedback) {
			myErr.SendErrorTo(w, myErr.ErrNotFoundFeedback, http.StatusNotFound, h.Logger)
		} else {
			myErr.SendErrorTo(w, myErr.ErrFetchFailed, http.StatusInternalServerError, h.Logger)
		}

		return
	}

	response.SendSuccessTo(w, item, http.StatusOK, h.Logger)
}

// Delete - DELETE /api/feedback/{id}
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	deletion, err := h.FeedbackRepository.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, myErr.ErrNotFoundFeedback) {
			myErr.SendErrorTo(w, myErr.ErrNotFoundFeedback, http.StatusNotFound, h.Logger)
		} else {
			myErr.SendErrorTo(w, myErr.ErrDeleteFailed, http.StatusInternalServerError, h.Logger)
		}

		return
	}

	h.publish(r, kafka.NewDeletedEvent(deletion.ID, h.Now()))

	response.SendSuccessTo(w, deletion, http.StatusOK, h.Logger)

	h.Logger.Infow("Feedback deleted", "id", deletion.ID, "request_id", requestID(r))
}

// Summarize - POST /api/feedback/summarize
func (h *FeedbackHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	texts, err := h.FeedbackRepository.ListAllTexts(r.Context())
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrSummarizeFailed, http.StatusInternalServerError, h.Logger)

		return
	}

	if len(texts) == 0 {
		myErr.SendErrorTo(w, myErr.ErrNoFeedbackToSummarize, http.StatusBadRequest, h.Logger)

		return
	}

	text, err := h.Summarizer.Summarize(r.Context(), texts)
	if err != nil {
		h.Logger.Errorw("Failed to summarize feedback", zap.Error(err), "count", len(texts))
		myErr.SendErrorTo(w, myErr.ErrSummarizeFailed, http.StatusInternalServerError, h.Logger)

		return
	}

	response.SendSuccessTo(w, summaryResponse{
		Summary:       text,
		FeedbackCount: len(texts),
	}, http.StatusOK, h.Logger)
}

// parseID принимает только целое число целиком
func (h *FeedbackHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)

		return 0, false
	}

	return id, true
}

// publish не влияет на ответ клиенту: ошибка только логируется
func (h *FeedbackHandler) publish(r *http.Request, event kafka.Event) {
	if err := h.Events.SendEvent(r.Context(), event); err != nil {
		h.Logger.Warnw("Failed to publish feedback event",
			zap.Error(err),
			"type", event.Type,
			"id", event.FeedbackID,
		)
	}
}

func requestID(r *http.Request) string {
	id, _ := contextutil.GetRequestIDFromContext(r.Context())
	return id
}
