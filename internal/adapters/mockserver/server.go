// Package mockserver is a conformant in-process content server. It backs the
// serve-mock command and the HTTP client tests.
package mockserver

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/kamal-hamza/stegshare-cli/pkg/logger"
)

// DefaultThreshold is the largest Hamming distance treated as a near duplicate
const DefaultThreshold = 5

// Options configures a Server
type Options struct {
	Secret    string
	Threshold int
	TokenTTL  time.Duration
	Logger    logger.Logger
}

type account struct {
	email    string
	identity string
	hash     []byte
}

type post struct {
	id        int64
	identity  string
	caption   string
	image     []byte
	print     fingerprint
	createdAt time.Time
}

type comment struct {
	id        int64
	postID    int64
	identity  string
	text      string
	createdAt time.Time
}

// Override replaces the reply of one route
type Override struct {
	Status      int
	Body        string
	ContentType string
}

// Server holds users, posts and comments in memory
type Server struct {
	app *fiber.App
	log logger.Logger

	secret    []byte
	threshold int
	tokenTTL  time.Duration

	mu        sync.Mutex
	accounts  map[string]account
	posts     []post
	comments  []comment
	nextPost  int64
	nextNote  int64
	overrides map[string]Override
	hits      map[string]int
}

// New builds a server with its routes registered
func New(opts Options) *Server {
	if opts.Secret == "" {
		opts.Secret = "stegshare-dev-secret"
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}

	s := &Server{
		log:       opts.Logger,
		secret:    []byte(opts.Secret),
		threshold: opts.Threshold,
		tokenTTL:  opts.TokenTTL,
		accounts:  make(map[string]account),
		nextPost:  1,
		nextNote:  1,
		overrides: make(map[string]Override),
		hits:      make(map[string]int),
	}

	s.app = fiber.New(fiber.Config{
		BodyLimit:             16 * 1024 * 1024,
		DisableStartupMessage: true,
		ErrorHandler:          s.handleError,
	})
	s.app.Use(s.trace)
	s.app.Use(s.scripted)
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	auth := s.app.Group("/auth")
	auth.Post("/register", s.register)
	auth.Post("/login", s.login)

	s.app.Post("/check-duplicate", s.requireToken, s.checkDuplicate)
	s.app.Post("/upload", s.requireToken, s.upload)
	s.app.Get("/upload", s.requireToken, s.listUploads)
	s.app.Get("/my-posts", s.requireToken, s.myPosts)
	s.app.Get("/files/:id", s.file)
	s.app.Post("/analyze", s.requireToken, s.analyze)
	s.app.Post("/comments", s.requireToken, s.createComment)
	s.app.Get("/comments", s.requireToken, s.listComments)
}

// App exposes the fiber application
func (s *Server) App() *fiber.App {
	return s.app
}

// Handler adapts the server to net/http
func (s *Server) Handler() http.HandlerFunc {
	return adaptor.FiberApp(s.app)
}

// Listen serves on addr until Shutdown
func (s *Server) Listen(addr string) error {
	s.log.Info("mockserver", "listening", map[string]interface{}{"addr": addr})
	return s.app.Listen(addr)
}

// Shutdown stops a listening server
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Override makes every request to method+path answer with o until
// ClearOverrides
func (s *Server) Override(method, path string, o Override) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[routeKey(method, path)] = o
}

// ClearOverrides restores normal handling
func (s *Server) ClearOverrides() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string]Override)
}

// Hits returns how many requests reached method+path
func (s *Server) Hits(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[routeKey(method, path)]
}

// PostCount returns the number of stored uploads
func (s *Server) PostCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

func routeKey(method, path string) string {
	return method + " " + path
}

func (s *Server) trace(c *fiber.Ctx) error {
	start := time.Now()
	s.mu.Lock()
	s.hits[routeKey(c.Method(), c.Path())]++
	s.mu.Unlock()

	err := c.Next()

	s.log.Debug("mockserver", "request", map[string]interface{}{
		"method":     c.Method(),
		"path":       c.Path(),
		"status":     c.Response().StatusCode(),
		"request_id": c.Get("X-Request-ID"),
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	return err
}

func (s *Server) scripted(c *fiber.Ctx) error {
	s.mu.Lock()
	o, ok := s.overrides[routeKey(c.Method(), c.Path())]
	s.mu.Unlock()
	if !ok {
		return c.Next()
	}

	contentType := o.ContentType
	if contentType == "" {
		contentType = fiber.MIMEApplicationJSON
	}
	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(o.Status).SendString(o.Body)
}

func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	s.log.Error("mockserver", "handler failed", map[string]interface{}{
		"path":  c.Path(),
		"error": err,
	})
	return c.Status(code).JSON(fiber.Map{"status": "error", "message": err.Error()})
}

func (s *Server) fileURL(c *fiber.Ctx, id int64) string {
	return fmt.Sprintf("%s/files/%d", c.BaseURL(), id)
}
