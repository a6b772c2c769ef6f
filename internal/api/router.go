package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	Publisher      SchedulePublisher
	Completer      RemedyCompleter
	Directory      Directory
	DB             Pinger
	Redis          *redis.Client
	MetricsHandler http.Handler
	Logger         zerolog.Logger
	Env            string
	Version        string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(RecoveryMiddleware(cfg.Logger))

	health := NewHealthHandler(cfg.DB, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/schedules", publishScheduleHandler(cfg.Publisher))
		r.Post("/remedies", completeRemedyHandler(cfg.Completer))

		r.Get("/doctors", listDoctorsHandler(cfg.Directory))
		r.Get("/doctors/top", topDoctorsHandler(cfg.Directory))
		r.Post("/doctors/info", saveDoctorInfoHandler(cfg.Directory))
		r.Get("/doctors/{id}", doctorDetailHandler(cfg.Directory))
		r.Get("/doctors/{id}/info", doctorInfoHandler(cfg.Directory))
		r.Get("/doctors/{id}/schedules", scheduleByDateHandler(cfg.Directory))
		r.Get("/doctors/{id}/patients", patientsForDoctorHandler(cfg.Directory))
	})

	return r
}
