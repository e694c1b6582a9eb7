package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/liaisonhq/liaison/metrics"
	"github.com/liaisonhq/liaison/model"
	"github.com/liaisonhq/liaison/pkg/di"
)

// RouterConfig collects the collaborators the HTTP surface needs.
type RouterConfig struct {
	Container  *di.Container
	Logger     *slog.Logger
	Metrics    *metrics.Recorder
	SigningKey []byte
}

// NewRouter assembles the full API: one resource per entity, lookup admin
// routes, feedback, and metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if len(cfg.SigningKey) > 0 {
		r.Use(Authenticator(cfg.SigningKey, logger))
	}

	hub := NewFeedbackHub()

	r.Route("/api", func(api chi.Router) {
		mountEntity[*model.Persona](api, "/personas", cfg.Container, hub, logger)
		mountEntity[*model.PersonaAssociation](api, "/persona-associations", cfg.Container, hub, logger)
		mountEntity[*model.SocialMediaAccount](api, "/social-media-accounts", cfg.Container, hub, logger)
		mountEntity[*model.SocialMediaAccountLink](api, "/social-media-account-links", cfg.Container, hub, logger)
		mountEntity[*model.InboundContent](api, "/inbound-content", cfg.Container, hub, logger)
		mountEntity[*model.Encounter](api, "/encounters", cfg.Container, hub, logger)

		api.Route("/lookups", func(lk chi.Router) {
			mountLookup(lk, "/encounter-types", cfg.Container, logger,
				func() *model.EncounterType { return &model.EncounterType{} })
			mountLookup(lk, "/behavior-types", cfg.Container, logger,
				func() *model.BehaviorType { return &model.BehaviorType{} })
			mountLookup(lk, "/social-media-apps", cfg.Container, logger,
				func() *model.SocialMediaApp { return &model.SocialMediaApp{} })
		})

		api.Get("/feedback", hub.Handler())
	})

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}

func mountEntity[T model.Entity](r chi.Router, pattern string, c *di.Container, hub *FeedbackHub, logger *slog.Logger) {
	res := NewResource(di.DataService[T](c), hub, logger)
	r.Route(pattern, res.Mount)
}

func mountLookup[T model.Lookup](r chi.Router, pattern string, c *di.Container, logger *slog.Logger, fresh func() T) {
	res := NewLookupResource(di.LookupRepository[T](c), fresh, logger)
	r.Route(pattern, res.Mount)
}
