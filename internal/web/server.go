// Package web serves the panel as a local browser form plus a small JSON API.
package web

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/jask/scenariopanel/internal/catalog"
	"github.com/jask/scenariopanel/internal/panel"
	"github.com/jask/scenariopanel/internal/scenario"
)

// Server owns the panel; every handler takes the lock before touching it.
type Server struct {
	mu    sync.Mutex
	panel *panel.Panel
	log   zerolog.Logger
}

func New(p *panel.Panel, log zerolog.Logger) *Server {
	return &Server{panel: p, log: log.With().Str("component", "web").Logger()}
}

// Handler builds the gin engine with all routes.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(template.Must(template.New("panel").Parse(pageTemplate)))

	r.GET("/", s.page)
	r.POST("/filters/:id", s.formSetFilter)
	r.POST("/slots/:slot", s.formToggle)
	r.POST("/scenarios/clear", s.formClear)

	api := r.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowOriginFunc: loopbackOrigin,
		AllowMethods:    []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowHeaders:    []string{"Content-Type", "X-Request-ID"},
		ExposeHeaders:   []string{"X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))
	// cors answers preflights itself; the route only has to exist so the group runs.
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	api.GET("/panel", s.apiPanel)
	api.PUT("/filters/:id", s.apiSetFilter)
	api.POST("/slots/:slot/toggle", s.apiSlot(func(ctx context.Context, slot scenario.SlotID) (panel.Action, error) {
		return s.panel.Toggle(ctx, slot)
	}))
	api.POST("/slots/:slot/save", s.apiSlot(func(ctx context.Context, slot scenario.SlotID) (panel.Action, error) {
		return panel.ActionSaved, s.panel.SaveScenario(ctx, slot)
	}))
	api.POST("/slots/:slot/load", s.apiSlot(func(ctx context.Context, slot scenario.SlotID) (panel.Action, error) {
		return panel.ActionLoaded, s.panel.LoadScenario(ctx, slot)
	}))
	api.DELETE("/slots", s.apiClear)
	return r
}

// loopbackOrigin accepts http(s) origins on localhost, 127.0.0.1 or ::1, any port.
func loopbackOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	return false
}

// ListenAndServe runs until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.log.Info().Str("addr", addr).Msg("serving panel")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("request_id", id).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("request")
	}
}

type filterView struct {
	ID      int      `json:"id"`
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Value   string   `json:"value"`
	Options []string `json:"options,omitempty"`
	Min     int64    `json:"min,omitempty"`
	Max     int64    `json:"max,omitempty"`
	Step    int64    `json:"step,omitempty"`
}

type slotView struct {
	ID     int             `json:"id"`
	Label  string          `json:"label"`
	Filled bool            `json:"filled"`
	Items  []scenario.Item `json:"items,omitempty"`
}

type panelView struct {
	Filters []filterView `json:"filters"`
	Slots   []slotView   `json:"slots"`
	Error   string       `json:"error,omitempty"`
}

// snapshotView must be called with s.mu held.
func (s *Server) snapshotView() panelView {
	var v panelView
	for _, row := range s.panel.Rows() {
		fv := filterView{ID: row.Def.ID, Name: row.Def.Name, Kind: string(row.Def.Kind)}
		if row.Value != nil {
			fv.Value = *row.Value
		}
		switch row.Def.Kind {
		case catalog.KindChoice:
			for _, o := range row.Def.Options {
				fv.Options = append(fv.Options, o.Label)
			}
		case catalog.KindRange:
			fv.Min, fv.Max, fv.Step = catalog.SliderMin, catalog.SliderMax, catalog.SliderStep
			if fv.Value == "" {
				fv.Value = strconv.FormatInt(catalog.SliderDefault, 10)
			}
		}
		v.Filters = append(v.Filters, fv)
	}
	for _, id := range scenario.Slots {
		v.Slots = append(v.Slots, slotView{
			ID:     int(id),
			Label:  s.panel.SlotLabel(id),
			Filled: s.panel.SlotState(id) == scenario.Filled,
			Items:  s.panel.SavedItems(id),
		})
	}
	return v
}

func (s *Server) page(c *gin.Context) {
	s.mu.Lock()
	v := s.snapshotView()
	s.mu.Unlock()
	v.Error = c.Query("error")
	c.HTML(http.StatusOK, "panel", v)
}

func (s *Server) redirect(c *gin.Context, err error) {
	target := "/"
	if err != nil {
		s.log.Error().Err(err).Str("path", c.FullPath()).Msg("form action failed")
		target = "/?error=" + url.QueryEscape(err.Error())
	}
	c.Redirect(http.StatusSeeOther, target)
}

func (s *Server) formSetFilter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid filter id")
		return
	}
	s.mu.Lock()
	setOrClear(s.panel, id, c.PostForm("value"))
	s.mu.Unlock()
	s.redirect(c, nil)
}

func (s *Server) formToggle(c *gin.Context) {
	slot, ok := parseSlot(c)
	if !ok {
		return
	}
	s.mu.Lock()
	_, err := s.panel.Toggle(c.Request.Context(), slot)
	s.mu.Unlock()
	s.redirect(c, err)
}

func (s *Server) formClear(c *gin.Context) {
	s.mu.Lock()
	err := s.panel.ClearScenarios(c.Request.Context())
	s.mu.Unlock()
	s.redirect(c, err)
}

func (s *Server) apiPanel(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.snapshotView())
}

type setFilterRequest struct {
	Value *string `json:"value"`
}

func (s *Server) apiSetFilter(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filter id"})
		return
	}
	var req setFilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	resp := gin.H{}
	if req.Value == nil {
		s.panel.ClearFilterValue(id)
	} else {
		s.panel.SetFilterValue(id, *req.Value)
		if def, ok := s.panel.Catalog().Lookup(id); ok {
			if sug := catalog.Suggest(def, *req.Value); sug != "" {
				resp["suggestion"] = sug
			}
		}
	}
	resp["panel"] = s.snapshotView()
	c.JSON(http.StatusOK, resp)
}

func (s *Server) apiSlot(op func(ctx context.Context, slot scenario.SlotID) (panel.Action, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		slot, ok := parseSlot(c)
		if !ok {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		act, err := op(c.Request.Context(), slot)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, scenario.ErrCorruptSnapshot) {
				status = http.StatusUnprocessableEntity
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": act, "panel": s.snapshotView()})
	}
}

func (s *Server) apiClear(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.panel.ClearScenarios(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"panel": s.snapshotView()})
}

func parseSlot(c *gin.Context) (scenario.SlotID, bool) {
	n, err := strconv.Atoi(c.Param("slot"))
	if err != nil || !scenario.SlotID(n).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": scenario.ErrInvalidSlot.Error()})
		return 0, false
	}
	return scenario.SlotID(n), true
}

// setOrClear treats an empty form value as the "Select an option" entry.
func setOrClear(p *panel.Panel, id int, value string) {
	if value == "" {
		p.ClearFilterValue(id)
		return
	}
	p.SetFilterValue(id, value)
}
