package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KevinGhlee/portfolio/internal/effects"
	"github.com/KevinGhlee/portfolio/internal/logging"
	"github.com/KevinGhlee/portfolio/internal/portfolio"
	"github.com/KevinGhlee/portfolio/internal/session"
	"github.com/KevinGhlee/portfolio/web"
)

// Server renders the portfolio page and serves the particle field of each
// page view once the browser reports it interactive.
type Server struct {
	engine    *gin.Engine
	views     *session.Registry
	logger    *zap.Logger
	clock     func() time.Time
	resumeURL string
}

// Option customises a Server.
type Option func(*Server)

// WithResumeURL links the page's resume buttons to url. Without it the
// buttons are omitted.
func WithResumeURL(url string) Option {
	return func(s *Server) { s.resumeURL = url }
}

// New wires the routes onto a fresh gin engine.
func New(views *session.Registry, logger *zap.Logger, opts ...Option) (*Server, error) {
	tmpl, err := web.Templates(template.FuncMap{
		"css": func(s string) template.CSS { return template.CSS(s) },
	})
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), logging.Requests(logger))
	r.SetHTMLTemplate(tmpl)
	r.StaticFS("/static", web.Static())

	s := &Server{engine: r, views: views, logger: logger, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	r.GET("/", s.page)
	r.HEAD("/", s.pageHead)
	r.GET("/healthz", s.health)

	fx := r.Group("/effects/views/:id")
	fx.POST("/activate", s.activate)
	fx.GET("/batch", s.batch)
	fx.DELETE("", s.teardown)

	return s, nil
}

// Handler exposes the engine for tests and custom listeners.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("Listening", zap.String("addr", addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Home page: the non-interactive render. The particle layer is always empty
// here; the browser fetches the batch after load.
func (s *Server) page(c *gin.Context) {
	id, v, err := s.views.Open(c.Query("variant"))
	if err != nil {
		c.String(http.StatusBadRequest, "unknown variant")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{
		"page":      portfolio.Content(s.clock(), s.resumeURL),
		"nav":       portfolio.Nav,
		"viewID":    id,
		"variant":   v.Name,
		"glyph":     v.Glyph,
		"phase":     effects.Pending.String(),
		"particles": effects.Batch(nil),
	})
}

// pageHead answers uptime checks and link previews without opening a view.
func (s *Server) pageHead(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
}

func (s *Server) activate(c *gin.Context) {
	id := c.Param("id")
	v, batch, err := s.views.Activate(id)
	if err != nil {
		s.notFound(c, err)
		return
	}
	c.HTML(http.StatusOK, "particles.html", gin.H{
		"viewID":    id,
		"variant":   v.Name,
		"glyph":     v.Glyph,
		"phase":     effects.Activated.String(),
		"particles": batch,
	})
}

func (s *Server) batch(c *gin.Context) {
	id := c.Param("id")
	phase, batch, err := s.views.Particles(id)
	if err != nil {
		s.notFound(c, err)
		return
	}
	if batch == nil {
		batch = effects.Batch{}
	}
	c.JSON(http.StatusOK, gin.H{
		"view":      id,
		"phase":     phase.String(),
		"particles": batch,
	})
}

func (s *Server) teardown(c *gin.Context) {
	if err := s.views.Teardown(c.Param("id")); err != nil {
		s.notFound(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"views":   s.views.Len(),
		"variant": s.views.Catalog().Default,
	})
}

func (s *Server) notFound(c *gin.Context, err error) {
	if errors.Is(err, session.ErrUnknownView) {
		c.JSON(http.StatusNotFound, gin.H{"error": "view not found"})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
