package router

import (
	"io/fs"
	"net/http"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"feedback-tool/internal/feedback"
	handlersFeedback "feedback-tool/internal/handlers/feedback"
	handlersSystem "feedback-tool/internal/handlers/system"
	"feedback-tool/internal/kafka"
	"feedback-tool/internal/middleware"
	"feedback-tool/internal/summary"
)

type Deps struct {
	Logger     *zap.SugaredLogger
	Repo       feedback.FeedbackRepo
	Summarizer summary.Summarizer
	Events     kafka.EventProducer
	Static     fs.FS
	Production bool
	// Registry - реестр метрик, nil значит новый на каждый вызов New
	Registry *prometheus.Registry
}

// New собирает все маршруты приложения
func New(d Deps) http.Handler {
	reg := d.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	metrics := middleware.NewMetrics(reg)

	feedbackHandlers := handlersFeedback.NewFeedbackHandler(d.Logger, d.Repo, d.Summarizer, d.Events)
	systemHandlers := handlersSystem.NewSystemHandler(d.Logger, d.Static)

	r := mux.NewRouter()
	r.Use(metrics.Middleware)

	r.HandleFunc("/", systemHandlers.Index).Methods(http.MethodGet)
	r.HandleFunc("/health", systemHandlers.Health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.PathPrefix("/css/").HandlerFunc(systemHandlers.Assets).Methods(http.MethodGet)
	r.PathPrefix("/js/").HandlerFunc(systemHandlers.Assets).Methods(http.MethodGet)

	api := r.PathPrefix("/api/feedback").Subrouter()
	for _, root := range []string{"", "/"} {
		api.HandleFunc(root, feedbackHandlers.Create).Methods(http.MethodPost)
		api.HandleFunc(root, feedbackHandlers.List).Methods(http.MethodGet)
	}
	// summarize раньше {id}, иначе его перехватит маршрут по id
	api.HandleFunc("/summarize", feedbackHandlers.Summarize).Methods(http.MethodPost)
	api.HandleFunc("/{id}", feedbackHandlers.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/{id}", feedbackHandlers.Delete).Methods(http.MethodDelete)

	r.NotFoundHandler = http.HandlerFunc(systemHandlers.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(systemHandlers.NotFound)

	var h http.Handler = r
	h = gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
	)(h)
	h = middleware.AccessLog(d.Logger)(h)
	h = middleware.Recovery(d.Logger, d.Production)(h)

	return h
}
