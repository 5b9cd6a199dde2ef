// Package server exposes banknote detection over HTTP. Clients either keep a session
// (create, upload, detect) or post a single image to /detect.
package server

import (
	"errors"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jtejido/notecheck"
	"github.com/jtejido/notecheck/report"
)

type Server struct {
	app       *fiber.App
	templates *notecheck.TemplateSet
	sessions  *SessionStore
	matcher   *notecheck.Matcher
	threshold float64
	currency  string
	bodyLimit int
	ttl       time.Duration
	max       int
	accessLog io.Writer
	logger    zerolog.Logger
}

type Option func(*Server)

func WithThreshold(t float64) Option        { return func(s *Server) { s.threshold = t } }
func WithCurrency(c string) Option          { return func(s *Server) { s.currency = c } }
func WithBodyLimit(n int) Option            { return func(s *Server) { s.bodyLimit = n } }
func WithSessionTTL(d time.Duration) Option { return func(s *Server) { s.ttl = d } }
func WithMaxSessions(n int) Option          { return func(s *Server) { s.max = n } }
func WithLogger(l zerolog.Logger) Option    { return func(s *Server) { s.logger = l } }

func WithMatcher(m *notecheck.Matcher) Option {
	return func(s *Server) { s.matcher = m }
}

// WithAccessLog sets where the request log goes. Nil disables it.
func WithAccessLog(w io.Writer) Option {
	return func(s *Server) { s.accessLog = w }
}

// New builds the server around a loaded template set.
func New(templates *notecheck.TemplateSet, opts ...Option) (*Server, error) {
	if templates.Empty() {
		return nil, &notecheck.ConfigurationError{Msg: "no templates loaded"}
	}

	s := &Server{
		templates: templates,
		matcher:   notecheck.NewMatcher(),
		threshold: notecheck.DefaultThreshold,
		currency:  notecheck.DefaultCurrency,
		bodyLimit: 10 * 1024 * 1024,
		ttl:       30 * time.Minute,
		max:       1024,
		accessLog: os.Stdout,
		logger:    log.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sessions = NewSessionStore(s.ttl, s.max, s.newSession)

	s.app = fiber.New(fiber.Config{
		AppName:               "notecheck",
		BodyLimit:             s.bodyLimit,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	if s.accessLog != nil {
		s.app.Use(logger.New(logger.Config{Output: s.accessLog}))
	}
	s.app.Use(cors.New())

	s.app.Get("/health", s.health)
	s.app.Get("/templates", s.listTemplates)
	s.app.Get("/templates/:label/image", s.templateImage)
	s.app.Post("/detect", s.detectOnce)

	sessions := s.app.Group("/sessions")
	sessions.Post("/", s.createSession)
	sessions.Post("/:id/image", s.uploadImage)
	sessions.Post("/:id/detect", s.detect)
	sessions.Delete("/:id", s.deleteSession)

	return s, nil
}

// App returns the underlying fiber app.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) Sessions() *SessionStore { return s.sessions }

func (s *Server) Listen(addr string) error {
	s.logger.Info().Str("addr", addr).Int("templates", s.templates.Len()).Msg("server starting")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) newSession() (*notecheck.Session, error) {
	return notecheck.NewSession(s.templates,
		notecheck.WithThreshold(s.threshold),
		notecheck.WithMatcher(s.matcher),
	)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		code = fe.Code
	case errors.Is(err, notecheck.ErrInvalidState):
		code = fiber.StatusConflict
	case errors.Is(err, notecheck.ErrLoad):
		code = fiber.StatusBadRequest
	case errors.Is(err, notecheck.ErrConfiguration):
		code = fiber.StatusServiceUnavailable
	}
	return respond(c, code, ErrorResponse{Error: err.Error()})
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"time":      time.Now(),
		"templates": s.templates.Len(),
		"sessions":  s.sessions.Len(),
	})
}

func (s *Server) listTemplates(c *fiber.Ctx) error {
	out := make([]TemplateInfo, 0, s.templates.Len())
	s.templates.Each(func(t *notecheck.Template) bool {
		out = append(out, TemplateInfo{Label: t.Label, Width: t.Width(), Height: t.Height()})
		return true
	})
	return respond(c, fiber.StatusOK, out)
}

func (s *Server) templateImage(c *fiber.Ctx) error {
	label, err := url.PathUnescape(c.Params("label"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid label")
	}
	t, ok := s.templates.Get(label)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "template not found: "+label)
	}
	c.Set(fiber.HeaderContentType, "image/png")
	return imaging.Encode(c, t.Image.Gray(), imaging.PNG)
}

func (s *Server) createSession(c *fiber.Ctx) error {
	id, e, err := s.sessions.Create()
	if err != nil {
		return err
	}
	s.logger.Debug().Str("session", id).Msg("session created")
	return respond(c, fiber.StatusCreated, SessionResponse{
		SessionID: id,
		State:     e.session.State().String(),
	})
}

func (s *Server) entry(c *fiber.Ctx) (string, *sessionEntry, error) {
	id := c.Params("id")
	e, ok := s.sessions.Get(id)
	if !ok {
		return "", nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return id, e, nil
}

func (s *Server) uploadImage(c *fiber.Ctx) error {
	id, e, err := s.entry(c)
	if err != nil {
		return err
	}
	data, name, err := readImage(c)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.session.UploadImageBytes(name, data); err != nil {
		s.logger.Warn().Err(err).Str("session", id).Msg("upload rejected")
		return err
	}
	in := e.session.Input()
	return respond(c, fiber.StatusOK, SessionResponse{
		SessionID: id,
		State:     e.session.State().String(),
		Width:     in.Width(),
		Height:    in.Height(),
	})
}

func (s *Server) detect(c *fiber.Ctx) error {
	id, e, err := s.entry(c)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	resp, err := s.run(e.session)
	if err != nil {
		return err
	}
	resp.SessionID = id
	return respond(c, fiber.StatusOK, resp)
}

func (s *Server) deleteSession(c *fiber.Ctx) error {
	if !s.sessions.Delete(c.Params("id")) {
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// detectOnce checks a single uploaded image without keeping a session.
func (s *Server) detectOnce(c *fiber.Ctx) error {
	data, name, err := readImage(c)
	if err != nil {
		return err
	}
	sess, err := s.newSession()
	if err != nil {
		return err
	}
	if err := sess.UploadImageBytes(name, data); err != nil {
		return err
	}
	resp, err := s.run(sess)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, resp)
}

func (s *Server) run(sess *notecheck.Session) (*DetectResponse, error) {
	start := time.Now()
	res, err := sess.Match()
	if err != nil {
		return nil, err
	}
	v := notecheck.Classify(res, sess.Threshold())
	s.logger.Info().Object("verdict", v).Dur("elapsed", time.Since(start)).Msg("detect")

	return &DetectResponse{
		Label:        v.Label,
		Score:        v.Score,
		Threshold:    v.Threshold,
		Genuine:      v.IsLikelyGenuine,
		Verdict:      v.Status(),
		Message:      v.Message(s.currency),
		HashDistance: v.HashDistance,
		Degenerate:   res.Degenerate,
		Scores:       report.Scores(res.Scores),
		Elapsed:      time.Since(start).String(),
	}, nil
}
