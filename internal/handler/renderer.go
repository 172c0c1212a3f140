package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"
	"sync"
)

// Renderer manages template parsing and rendering with isolated template sets.
// It supports two layouts:
//   - "auth" layout for the auth pages (login, register, password reset)
//   - "app" layout for everything else (dashboard, privacy, terms)
//
// Templates are organized as:
//   - layouts/auth.html, layouts/app.html - base layouts
//   - components/*.html - reusable components (shared across layouts)
//   - pages/auth/*.html - auth pages (use auth layout)
//   - pages/*.html - app pages (use app layout)
type Renderer struct {
	templates map[string]*template.Template
	logger    *slog.Logger
	isDev     bool
	mu        sync.RWMutex

	fsys fs.FS
}

// RendererConfig holds configuration for the renderer.
type RendererConfig struct {
	// FS is the template tree, usually web.Templates.
	FS fs.FS
	// TemplatesDir, when set in dev mode, replaces FS with the directory on
	// disk so edits show up on the next request.
	TemplatesDir string
	Logger       *slog.Logger
	IsDev        bool
}

// NewRenderer creates a new template renderer.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	fsys := cfg.FS
	if cfg.IsDev && cfg.TemplatesDir != "" {
		fsys = os.DirFS(cfg.TemplatesDir)
	}
	if fsys == nil {
		return nil, fmt.Errorf("renderer: no template filesystem")
	}

	r := &Renderer{
		templates: make(map[string]*template.Template),
		logger:    cfg.Logger,
		isDev:     cfg.IsDev,
		fsys:      fsys,
	}

	if err := r.loadTemplates(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) loadTemplates() error {
	componentFiles, err := fs.Glob(r.fsys, "components/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob components: %w", err)
	}

	authBaseTmpl, err := r.parseLayout("auth", componentFiles)
	if err != nil {
		return err
	}
	appBaseTmpl, err := r.parseLayout("app", componentFiles)
	if err != nil {
		return err
	}

	// Parse auth pages (login, register, forgot-password, etc.)
	if err := r.parsePages(authBaseTmpl, "pages/auth/*.html", "auth/"); err != nil {
		return err
	}

	// Parse app pages (dashboard, privacy, terms)
	if err := r.parsePages(appBaseTmpl, "pages/*.html", ""); err != nil {
		return err
	}

	r.logger.Debug("templates loaded", "count", len(r.templates))
	return nil
}

// parseLayout parses layouts/<name>.html together with the shared components.
func (r *Renderer) parseLayout(name string, componentFiles []string) (*template.Template, error) {
	layoutPath := path.Join("layouts", name+".html")
	tmpl, err := template.New(name).Funcs(TemplateFuncs()).ParseFS(r.fsys, layoutPath)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s layout: %w", name, err)
	}

	if len(componentFiles) > 0 {
		tmpl, err = tmpl.ParseFS(r.fsys, componentFiles...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse components into %s layout: %w", name, err)
		}
	}
	return tmpl, nil
}

// parsePages clones base for every page matching pattern and stores it under
// prefix + file stem.
func (r *Renderer) parsePages(base *template.Template, pattern, prefix string) error {
	pages, err := fs.Glob(r.fsys, pattern)
	if err != nil {
		return fmt.Errorf("failed to glob %s: %w", pattern, err)
	}

	for _, page := range pages {
		pageTmpl, err := base.Clone()
		if err != nil {
			return fmt.Errorf("failed to clone template for %s: %w", page, err)
		}

		pageTmpl, err = pageTmpl.ParseFS(r.fsys, page)
		if err != nil {
			return fmt.Errorf("failed to parse page %s: %w", page, err)
		}

		pageName := path.Base(page)
		pageName = strings.TrimSuffix(pageName, path.Ext(pageName))
		r.templates[prefix+pageName] = pageTmpl
	}
	return nil
}

// Reload reloads all templates. Useful for development.
func (r *Renderer) Reload() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.templates = make(map[string]*template.Template)
	return r.loadTemplates()
}

// Render renders a template to an io.Writer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	// In dev mode, reload templates on each request
	if r.isDev {
		if err := r.Reload(); err != nil {
			return fmt.Errorf("template reload failed: %w", err)
		}
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	return tmpl.ExecuteTemplate(w, r.getBaseTemplateName(name), data)
}

// RenderHTTP renders a template directly to an http.ResponseWriter.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	// Render to buffer first to catch errors before writing headers
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", "name", name, "error", err)
		http.Error(w, "Template execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// getBaseTemplateName determines which base template to execute.
func (r *Renderer) getBaseTemplateName(name string) string {
	if strings.HasPrefix(name, "auth/") {
		return "auth"
	}
	return "app"
}

// ListTemplates returns a list of all loaded template names.
// Useful for debugging.
func (r *Renderer) ListTemplates() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}
