package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/authpages/internal/templ/components"
	"github.com/a-h/templ"
)

// AppPageData is passed to the pages rendered with the app layout.
type AppPageData struct {
	Title       string
	AppName     string
	CompanyName string
}

// PageHandler serves the static pages linked from the auth layout and the
// landing page the login flow navigates to.
type PageHandler struct {
	renderer TemplateRenderer
	logger   *slog.Logger
	cfg      AuthConfig
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(renderer TemplateRenderer, logger *slog.Logger, cfg AuthConfig) *PageHandler {
	return &PageHandler{renderer: renderer, logger: logger, cfg: cfg}
}

// RegisterRoutes registers the static pages and the catch-all not-found
// handler. Call it after every other route is registered.
func (h *PageHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /dashboard", h.page("dashboard", "Dashboard"))
	mux.HandleFunc("GET /privacy", h.page("privacy", "Privacy Policy"))
	mux.HandleFunc("GET /terms", h.page("terms", "Terms of Service"))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		NotFound(w, r, h.logger)
	})
}

func (h *PageHandler) page(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderer.RenderHTTP(w, name, AppPageData{
			Title:       title,
			AppName:     h.cfg.AppName,
			CompanyName: h.cfg.CompanyName,
		})
	}
}

// NotFound answers unmatched paths: JSON for API clients, the not-found page
// otherwise.
func NotFound(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	if acceptsJSON(r) {
		NotFoundResponse(w, r, logger)
		return
	}

	logger.Warn("page not found", "method", r.Method, "path", r.URL.Path)
	templ.Handler(
		components.NotFoundPage(r.URL.Path),
		templ.WithStatus(http.StatusNotFound),
	).ServeHTTP(w, r)
}
