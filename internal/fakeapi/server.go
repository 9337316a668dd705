// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package fakeapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"

	"github.com/jeranaias/ava-tui/internal/logging"
	"github.com/jeranaias/ava-tui/internal/model"
)

// CookieName is the session cookie set by login.
const CookieName = "access_token"

// TimestampLayout matches Python's datetime.isoformat() for naive UTC times.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// Responder produces the bot reply for a user message.
type Responder func(content string) string

// EchoResponder replies with a fixed greeting followed by the user's text.
func EchoResponder(content string) string {
	return "You said: " + content
}

type user struct {
	id    string
	email string
	hash  []byte
}

type failure struct {
	status int
	detail string
}

// Server is the fake backend. It is safe for concurrent use.
type Server struct {
	mu        sync.Mutex
	secret    []byte
	cost      int
	ttl       time.Duration
	now       func() time.Time
	responder Responder

	users    map[string]*user           // by email
	messages map[string][]model.Message // by user id
	counts   map[string]int
	failures map[string][]failure

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithResponder sets how bot replies are generated.
func WithResponder(r Responder) Option {
	return func(s *Server) { s.responder = r }
}

// WithSecret sets the JWT signing key.
func WithSecret(secret string) Option {
	return func(s *Server) { s.secret = []byte(secret) }
}

// WithClock sets the time source for timestamps and token expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Server) { s.cost = cost }
}

// WithSessionTTL sets how long login tokens stay valid.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) { s.ttl = ttl }
}

// New creates an empty fake backend.
func New(opts ...Option) *Server {
	s := &Server{
		secret:    []byte("ava-fake-secret"),
		cost:      bcrypt.DefaultCost,
		ttl:       24 * time.Hour,
		now:       time.Now,
		responder: EchoResponder,
		users:     make(map[string]*user),
		messages:  make(map[string][]model.Message),
		counts:    make(map[string]int),
		failures:  make(map[string][]failure),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(s.track)

	r.Route("/users", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.With(s.requireSession).Get("/me", s.handleMe)
	})

	r.Route("/messages", func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get("/", s.handleList)
		r.Post("/", s.handleSend)
		r.Put("/{id}", s.handleEdit)
		r.Delete("/{id}", s.handleDelete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// =============================================================================
// TEST HOOKS
// =============================================================================

// RouteKey normalizes a request to the key used by Count and FailNext,
// e.g. "PUT /messages/{id}".
func RouteKey(method, path string) string {
	if strings.HasPrefix(path, "/messages/") && len(path) > len("/messages/") {
		path = "/messages/{id}"
	}
	return method + " " + path
}

// track counts requests and serves injected failures.
func (s *Server) track(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := RouteKey(r.Method, r.URL.Path)

		s.mu.Lock()
		s.counts[key]++
		var injected *failure
		if q := s.failures[key]; len(q) > 0 {
			f := q[0]
			injected = &f
			s.failures[key] = q[1:]
		}
		s.mu.Unlock()

		logging.Debug("fakeapi request", "route", key, "request_id", r.Header.Get("X-Request-ID"))

		if injected != nil {
			writeDetail(w, injected.status, injected.detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Count returns how many requests hit route (see RouteKey).
func (s *Server) Count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[route]
}

// Total returns the number of requests served.
func (s *Server) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// ResetCounts zeroes the request counters.
func (s *Server) ResetCounts() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = make(map[string]int)
}

// FailNext makes the next request to route answer status with detail.
// An empty detail produces a body without one.
func (s *Server) FailNext(route string, status int, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = append(s.failures[route], failure{status: status, detail: detail})
}

// =============================================================================
// SEEDING
// =============================================================================

// ErrEmailTaken is returned by AddUser for a duplicate email.
var ErrEmailTaken = errors.New("email already registered")

// AddUser registers an account directly, bypassing HTTP.
func (s *Server) AddUser(email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.addUserLocked(email, password)
	return err
}

func (s *Server) addUserLocked(email, password string) (*user, error) {
	email = normalizeEmail(email)
	if _, ok := s.users[email]; ok {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &user{id: newID(), email: email, hash: hash}
	s.users[email] = u
	return u, nil
}

// SeedMessages replaces the stored conversation of email's account.
func (s *Server) SeedMessages(email string, msgs []model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[normalizeEmail(email)]
	if !ok {
		return fmt.Errorf("unknown user %q", email)
	}
	s.messages[u.id] = append([]model.Message(nil), msgs...)
	return nil
}

// Messages returns a copy of email's stored conversation.
func (s *Server) Messages(email string) []model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[normalizeEmail(email)]
	if !ok {
		return nil
	}
	return append([]model.Message(nil), s.messages[u.id]...)
}

func (s *Server) timestamp() string {
	return s.now().UTC().Format(TimestampLayout)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
