package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"

	"github.com/aretw0/crossroads"
	"github.com/aretw0/crossroads/internal/logging"
	iruntime "github.com/aretw0/crossroads/internal/runtime"
	"github.com/aretw0/crossroads/pkg/adapters/memory"
	"github.com/aretw0/crossroads/pkg/codec"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/grammar"
	"github.com/aretw0/crossroads/pkg/ports"
	"github.com/aretw0/crossroads/pkg/runner"
	"github.com/aretw0/crossroads/pkg/session"
)

// Server exposes the engine and headless dialog sessions over REST.
type Server struct {
	engines  map[string]*crossroads.Engine
	dialect  grammar.Dialect
	sessions *session.Manager
	metrics  *Metrics
	logger   *slog.Logger
}

type options struct {
	dialect grammar.Dialect
	store   ports.DialogStore
	locker  ports.DistributedLocker
	sink    ports.ReplySink
	logger  *slog.Logger
	metrics *Metrics
}

// Option configures the Server.
type Option func(*options)

// WithDialect sets the dialect used when a request names none.
func WithDialect(d grammar.Dialect) Option {
	return func(o *options) { o.dialect = d }
}

// WithStore sets where dialog sessions live (default: in memory).
func WithStore(store ports.DialogStore) Option {
	return func(o *options) { o.store = store }
}

// WithLocker serializes session access across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(o *options) { o.locker = locker }
}

// WithReplySink forwards every submitted reply to sink.
func WithReplySink(sink ports.ReplySink) Option {
	return func(o *options) { o.sink = sink }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics shares a Metrics instance instead of creating one.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// NewServer wires the engines and the session manager.
func NewServer(opts ...Option) *Server {
	o := options{dialect: grammar.Strict}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}
	if o.store == nil {
		o.store = memory.NewStore()
	}
	if o.metrics == nil {
		o.metrics = NewMetrics()
	}

	s := &Server{
		engines: make(map[string]*crossroads.Engine),
		dialect: o.dialect,
		metrics: o.metrics,
		logger:  o.logger,
	}
	for _, d := range grammar.Dialects() {
		s.engines[d.Name] = crossroads.New(
			crossroads.WithDialect(d),
			crossroads.WithLogger(o.logger),
			crossroads.WithLifecycleHooks(o.metrics.Hooks()),
		)
	}

	sessionOpts := []session.Option{
		session.WithLogger(o.logger),
		session.WithLifecycleHooks(o.metrics.Hooks()),
	}
	if o.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(o.locker))
	}
	if o.sink != nil {
		sessionOpts = append(sessionOpts, session.WithReplySink(o.sink))
	}
	s.sessions = session.NewManager(o.store, sessionOpts...)
	return s
}

// NewHandler creates the HTTP handler with default wiring plus opts.
func NewHandler(opts ...Option) (http.Handler, error) {
	return NewServer(opts...).Handler()
}

// Handler builds the chi router with request validation and metrics.
func (s *Server) Handler() (http.Handler, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.instrument)

	r.Get("/metrics", s.metrics.Handler().ServeHTTP)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(rawSpec)
	})

	r.Group(func(r chi.Router) {
		r.Use(validate)
		r.Get("/healthz", s.GetHealth)
		r.Route("/v1", func(r chi.Router) {
			r.Post("/parse", s.ParseMessage)
			r.Post("/encode", s.EncodeAnswers)
			r.Post("/decode", s.DecodeReply)
			r.Get("/instructions/{dialect}", s.GetInstructions)
			r.Post("/dialogs", s.OpenDialog)
			r.Get("/dialogs/{id}", s.GetDialog)
			r.Delete("/dialogs/{id}", s.DeleteDialog)
			r.Post("/dialogs/{id}/events", s.ApplyEvents)
		})
	})
	return r, nil
}

// Sessions returns the session manager backing the dialog routes.
func (s *Server) Sessions() *session.Manager {
	return s.sessions
}

type parseRequest struct {
	Message string `json:"message"`
	Dialect string `json:"dialect,omitempty"`
}

type parseResponse struct {
	Found   bool          `json:"found"`
	Dialect string        `json:"dialect"`
	Round   *domain.Round `json:"round,omitempty"`
}

type encodeRequest struct {
	Round   domain.Round    `json:"round"`
	Answers []domain.Answer `json:"answers"`
}

type decodeRequest struct {
	Round domain.Round `json:"round"`
	Reply string       `json:"reply"`
}

type replyResponse struct {
	Reply string `json:"reply"`
}

type decodeResponse struct {
	Answers []domain.Answer `json:"answers"`
}

type instructionsResponse struct {
	Dialect      string `json:"dialect"`
	MaxRounds    int    `json:"max_rounds"`
	Instructions string `json:"instructions"`
}

type openDialogRequest struct {
	Dialect string        `json:"dialect,omitempty"`
	Round   *domain.Round `json:"round,omitempty"`
	Message string        `json:"message,omitempty"`
}

type eventsRequest struct {
	Events []iruntime.Event `json:"events"`
}

// DialogResponse is the wire view of a dialog session.
type DialogResponse struct {
	ID      string             `json:"id"`
	Dialect string             `json:"dialect"`
	Round   domain.Round       `json:"round"`
	State   domain.DialogState `json:"state"`
	Frame   iruntime.Frame     `json:"frame"`
	Render  string             `json:"render,omitempty"`
	Reply   string             `json:"reply,omitempty"`
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(crossroads.Version),
	})
}

// ParseMessage handles POST /v1/parse.
func (s *Server) ParseMessage(w http.ResponseWriter, r *http.Request) {
	var body parseRequest
	if !s.decode(w, r, &body) {
		return
	}
	eng, err := s.engine(body.Dialect)
	if err != nil {
		s.fail(w, err)
		return
	}

	resp := parseResponse{Dialect: eng.Dialect().Name}
	if round, ok := eng.Parse(r.Context(), body.Message); ok {
		resp.Found = true
		resp.Round = &round
	}
	writeJSON(w, http.StatusOK, resp)
}

// EncodeAnswers handles POST /v1/encode.
func (s *Server) EncodeAnswers(w http.ResponseWriter, r *http.Request) {
	var body encodeRequest
	if !s.decode(w, r, &body) {
		return
	}
	if err := body.Round.Validate(); err != nil {
		s.fail(w, err)
		return
	}
	if err := codec.Validate(body.Round, body.Answers); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, replyResponse{Reply: codec.Encode(body.Round, body.Answers)})
}

// DecodeReply handles POST /v1/decode.
func (s *Server) DecodeReply(w http.ResponseWriter, r *http.Request) {
	var body decodeRequest
	if !s.decode(w, r, &body) {
		return
	}
	if err := body.Round.Validate(); err != nil {
		s.fail(w, err)
		return
	}
	answers, err := codec.Decode(body.Round, body.Reply)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decodeResponse{Answers: answers})
}

// GetInstructions handles GET /v1/instructions/{dialect}.
func (s *Server) GetInstructions(w http.ResponseWriter, r *http.Request) {
	var name string
	err := runtime.BindStyledParameterWithOptions("simple", "dialect", chi.URLParam(r, "dialect"), &name,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter dialect: %w", err))
		return
	}

	d, err := grammar.ParseDialect(name)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, instructionsResponse{
		Dialect:      d.Name,
		MaxRounds:    d.MaxRounds,
		Instructions: grammar.Instructions(d),
	})
}

// OpenDialog handles POST /v1/dialogs. The round is taken from the body or
// parsed out of message.
func (s *Server) OpenDialog(w http.ResponseWriter, r *http.Request) {
	var body openDialogRequest
	if !s.decode(w, r, &body) {
		return
	}
	eng, err := s.engine(body.Dialect)
	if err != nil {
		s.fail(w, err)
		return
	}

	var round domain.Round
	switch {
	case body.Round != nil:
		round = *body.Round
	case body.Message != "":
		var ok bool
		if round, ok = eng.Parse(r.Context(), body.Message); !ok {
			s.fail(w, domain.ErrNoRound)
			return
		}
	default:
		writeError(w, http.StatusBadRequest, errors.New("round or message is required"))
		return
	}

	sess, err := s.sessions.Open(r.Context(), eng.Dialect().Name, round)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.metrics.dialogsOpened.WithLabelValues(sess.Dialect).Inc()
	s.logger.Info("Dialog opened", "session_id", sess.ID, "questions", len(round.Questions))
	s.respondDialog(w, http.StatusCreated, sess, 0)
}

// GetDialog handles GET /v1/dialogs/{id}. With ?width=N the plain-text render is included.
func (s *Server) GetDialog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var width *int
	if err := runtime.BindQueryParameter("form", true, false, "width", r.URL.Query(), &width); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter width: %w", err))
		return
	}

	sess, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	cols := 0
	if width != nil {
		cols = *width
	}
	s.respondDialog(w, http.StatusOK, sess, cols)
}

// DeleteDialog handles DELETE /v1/dialogs/{id}.
func (s *Server) DeleteDialog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyEvents handles POST /v1/dialogs/{id}/events.
func (s *Server) ApplyEvents(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var body eventsRequest
	if !s.decode(w, r, &body) {
		return
	}
	for i, ev := range body.Events {
		if ev.Text == "" {
			continue
		}
		clean, err := runner.SanitizeInput(ev.Text)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("event %d: %w", i+1, err))
			return
		}
		body.Events[i].Text = clean
	}

	sess, err := s.sessions.Apply(r.Context(), id, body.Events...)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondDialog(w, http.StatusOK, sess, 0)
}

func (s *Server) respondDialog(w http.ResponseWriter, status int, sess *domain.DialogSession, width int) {
	d, err := s.sessions.Restore(sess)
	if err != nil {
		s.fail(w, err)
		return
	}
	resp := DialogResponse{
		ID:      sess.ID,
		Dialect: sess.Dialect,
		Round:   sess.Round,
		State:   sess.State,
		Frame:   d.Frame(),
		Reply:   sess.Reply,
	}
	if width > 0 {
		resp.Render = d.Render(width)
	}
	writeJSON(w, status, resp)
}

func (s *Server) engine(name string) (*crossroads.Engine, error) {
	if name == "" {
		name = s.dialect.Name
	}
	d, err := grammar.ParseDialect(name)
	if err != nil {
		return nil, err
	}
	return s.engines[d.Name], nil
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		s.logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		return false
	}
	return true
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "err", err)
	}
	writeError(w, status, err)
}

func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid format for parameter id: %w", err))
		return "", false
	}
	return id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownDialect):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidRound),
		errors.Is(err, domain.ErrInvalidAnswer),
		errors.Is(err, domain.ErrMalformedReply),
		errors.Is(err, domain.ErrNoRound):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
