package handlers

import (
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	myErr "feedback-tool/internal/types/errors"
	"feedback-tool/internal/types/response"
)

const routeNotFoundMessage = "Route not found"

type SystemHandler struct {
	Logger *zap.SugaredLogger
	Static fs.FS
	Now    func() time.Time

	files http.Handler
}

func NewSystemHandler(l *zap.SugaredLogger, static fs.FS) *SystemHandler {
	return &SystemHandler{
		Logger: l,
		Static: static,
		Now:    time.Now,
		files:  http.FileServer(http.FS(static)),
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// Index - GET /, страница клиента
func (h *SystemHandler) Index(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(h.Static, "index.html")
	if err != nil {
		h.Logger.Errorw("Failed to read index.html", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		h.Logger.Warnw("Failed to write index page", zap.Error(err))
	}
}

// Assets отдает /css/* и /js/*
func (h *SystemHandler) Assets(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}

// Health - GET /health
func (h *SystemHandler) Health(w http.ResponseWriter, _ *http.Request) {
	response.WriteJSON(w, healthResponse{
		Status:    "OK",
		Timestamp: h.Now().UTC().Format(time.RFC3339Nano),
	}, http.StatusOK, h.Logger)
}

// NotFound - ответ на любой не найденный маршрут, в том числе
// на известный путь с неподдерживаемым методом
func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	myErr.SendRouteErrorTo(w, myErr.RouteErrorBody{
		Message: routeNotFoundMessage,
		Path:    r.URL.Path,
	}, http.StatusNotFound, h.Logger)
}
