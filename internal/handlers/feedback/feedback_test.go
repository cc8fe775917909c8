package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"feedback-tool/internal/feedback"
	handlers "feedback-tool/internal/handlers/feedback"
	"feedback-tool/internal/kafka"
	"feedback-tool/internal/mocks"
	"feedback-tool/internal/storage"
	myErr "feedback-tool/internal/types/errors"
)

var (
	createdAt = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fixedNow  = time.Date(2024, 5, 1, 12, 0, 1, 0, time.UTC)
)

type testDeps struct {
	repo       *mocks.MockFeedbackRepo
	summarizer *mocks.MockSummarizer
	events     *mocks.MockEventProducer
	router     *mux.Router
}

func setup(t *testing.T) *testDeps {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	deps := &testDeps{
		repo:       mocks.NewMockFeedbackRepo(ctrl),
		summarizer: mocks.NewMockSummarizer(ctrl),
		events:     mocks.NewMockEventProducer(ctrl),
	}

	h := handlers.NewFeedbackHandler(zaptest.NewLogger(t).Sugar(), deps.repo, deps.summarizer, deps.events)
	h.Now = func() time.Time { return fixedNow }

	r := mux.NewRouter()
	r.HandleFunc("/api/feedback", h.Create).Methods(http.MethodPost)
	r.HandleFunc("/api/feedback", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/feedback/summarize", h.Summarize).Methods(http.MethodPost)
	r.HandleFunc("/api/feedback/{id}", h.GetByID).Methods(http.MethodGet)
	r.HandleFunc("/api/feedback/{id}", h.Delete).Methods(http.MethodDelete)
	deps.router = r

	return deps
}

func (d *testDeps) do(method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	d.router.ServeHTTP(rr, req)

	return rr
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestFeedbackHandler_Create(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockBehavior   func(d *testDeps)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			body: `{"text":"  Great tool  "}`,
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().
					Create(gomock.Any(), "Great tool").
					Return(&feedback.Feedback{ID: 1, Text: "Great tool", Timestamp: storage.NewTimestamp(createdAt)}, nil)
				d.events.EXPECT().
					SendEvent(gomock.Any(), kafka.NewCreatedEvent(1, 2, fixedNow)).
					Return(nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"success":true,"data":{"id":1,"text":"Great tool","timestamp":"2024-05-01T12:00:00Z"}}`,
		},
		{
			name: "event failure does not fail request",
			body: `{"text":"ok"}`,
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().
					Create(gomock.Any(), "ok").
					Return(&feedback.Feedback{ID: 2, Text: "ok", Timestamp: storage.NewTimestamp(createdAt)}, nil)
				d.events.EXPECT().
					SendEvent(gomock.Any(), gomock.Any()).
					Return(errors.New("broker down"))
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing text",
			body:           `{}`,
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Feedback text is required"}`,
		},
		{
			name:           "empty body",
			body:           "",
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Feedback text is required"}`,
		},
		{
			name:           "text is not a string",
			body:           `{"text":42}`,
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Feedback text is required"}`,
		},
		{
			name:           "empty string",
			body:           `{"text":""}`,
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Feedback text is required"}`,
		},
		{
			name:           "whitespace only",
			body:           `{"text":"   \n\t "}`,
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Feedback text cannot be empty"}`,
		},
		{
			name:           "501 words",
			body:           `{"text":"` + words(501) + `"}`,
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Feedback cannot exceed 500 words"}`,
		},
		{
			name:           "invalid json",
			body:           `{invalid_json}`,
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Invalid JSON payload"}`,
		},
		{
			name:           "body too large",
			body:           `{"text":"` + strings.Repeat("a", handlers.MaxBodyBytes) + `"}`,
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedBody:   `{"error":"Request body too large"}`,
		},
		{
			name: "storage error",
			body: `{"text":"fine"}`,
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().
					Create(gomock.Any(), "fine").
					Return(nil, errors.New("database internal error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to create feedback"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := setup(t)
			tc.mockBehavior(d)

			rr := d.do(http.MethodPost, "/api/feedback", tc.body)

			assert.Equal(t, tc.expectedStatus, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
		})
	}
}

func TestFeedbackHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		mockBehavior   func(d *testDeps)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().List(gomock.Any()).Return([]*feedback.Feedback{
					{ID: 2, Text: "b", Timestamp: storage.NewTimestamp(createdAt.Add(time.Second))},
					{ID: 1, Text: "a", Timestamp: storage.NewTimestamp(createdAt)},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"success":true,"data":[` +
				`{"id":2,"text":"b","timestamp":"2024-05-01T12:00:01Z"},` +
				`{"id":1,"text":"a","timestamp":"2024-05-01T12:00:00Z"}]}`,
		},
		{
			name: "empty",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().List(gomock.Any()).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"data":[]}`,
		},
		{
			name: "storage error",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to fetch feedback"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := setup(t)
			tc.mockBehavior(d)

			rr := d.do(http.MethodGet, "/api/feedback", "")

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestFeedbackHandler_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		mockBehavior   func(d *testDeps)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			id:   "1",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().GetByID(gomock.Any(), int64(1)).
					Return(&feedback.Feedback{ID: 1, Text: "a", Timestamp: storage.NewTimestamp(createdAt)}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"data":{"id":1,"text":"a","timestamp":"2024-05-01T12:00:00Z"}}`,
		},
		{
			name:           "not a number",
			id:             "abc",
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Valid feedback ID is required"}`,
		},
		{
			name:           "trailing garbage",
			id:             "12abc",
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Valid feedback ID is required"}`,
		},
		{
			name: "not found",
			id:   "99",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().GetByID(gomock.Any(), int64(99)).Return(nil, errNotFound())
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Feedback not found"}`,
		},
		{
			name: "storage error",
			id:   "3",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().GetByID(gomock.Any(), int64(3)).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to fetch feedback"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := setup(t)
			tc.mockBehavior(d)

			rr := d.do(http.MethodGet, "/api/feedback/"+tc.id, "")

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestFeedbackHandler_Delete(t *testing.T) {
	tests := []struct {
		name           string
		id             string
		mockBehavior   func(d *testDeps)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			id:   "5",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().Delete(gomock.Any(), int64(5)).
					Return(&feedback.Deletion{ID: 5, Deleted: true}, nil)
				d.events.EXPECT().
					SendEvent(gomock.Any(), kafka.NewDeletedEvent(5, fixedNow)).
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"data":{"id":5,"deleted":true}}`,
		},
		{
			name:           "bad id",
			id:             "1.5",
			mockBehavior:   func(d *testDeps) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"Valid feedback ID is required"}`,
		},
		{
			name: "not found",
			id:   "5",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil, errNotFound())
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"Feedback not found"}`,
		},
		{
			name: "storage error",
			id:   "5",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().Delete(gomock.Any(), int64(5)).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to delete feedback"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := setup(t)
			tc.mockBehavior(d)

			rr := d.do(http.MethodDelete, "/api/feedback/"+tc.id, "")

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestFeedbackHandler_Summarize(t *testing.T) {
	tests := []struct {
		name           string
		mockBehavior   func(d *testDeps)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success",
			mockBehavior: func(d *testDeps) {
				texts := []string{"a", "b", "c"}
				d.repo.EXPECT().ListAllTexts(gomock.Any()).Return(texts, nil)
				d.summarizer.EXPECT().Summarize(gomock.Any(), texts).Return("Based on 3 feedback submissions", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success":true,"data":{"summary":"Based on 3 feedback submissions","feedbackCount":3}}`,
		},
		{
			name: "empty store",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().ListAllTexts(gomock.Any()).Return([]string{}, nil)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"No feedback available to summarize"}`,
		},
		{
			name: "storage error",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().ListAllTexts(gomock.Any()).Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to generate summary"}`,
		},
		{
			name: "summarizer error",
			mockBehavior: func(d *testDeps) {
				d.repo.EXPECT().ListAllTexts(gomock.Any()).Return([]string{"a"}, nil)
				d.summarizer.EXPECT().Summarize(gomock.Any(), gomock.Any()).Return("", context.DeadlineExceeded)
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"Failed to generate summary"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := setup(t)
			tc.mockBehavior(d)

			rr := d.do(http.MethodPost, "/api/feedback/summarize", "")

			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestNewFeedbackHandler_NilEventsUsesNop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockFeedbackRepo(ctrl)
	repo.EXPECT().Create(gomock.Any(), "hi").
		Return(&feedback.Feedback{ID: 1, Text: "hi", Timestamp: storage.NewTimestamp(createdAt)}, nil)

	h := handlers.NewFeedbackHandler(zaptest.NewLogger(t).Sugar(), repo, mocks.NewMockSummarizer(ctrl), nil)

	body, err := json.Marshal(map[string]string{"text": "hi"})
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	h.Create(rr, httptest.NewRequest(http.MethodPost, "/api/feedback", bytes.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rr.Code)
}

func errNotFound() error {
	return myErr.ErrNotFoundFeedback
}
