package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/crossroads"
	"github.com/aretw0/crossroads/internal/logging"
	"github.com/aretw0/crossroads/pkg/codec"
	"github.com/aretw0/crossroads/pkg/domain"
	"github.com/aretw0/crossroads/pkg/grammar"
)

// ParseResult is the structured output of parse_decision_points.
type ParseResult struct {
	Found   bool          `json:"found" jsonschema_description:"Whether the message contains a decision round"`
	Dialect string        `json:"dialect" jsonschema_description:"Dialect used to parse the message"`
	Round   *domain.Round `json:"round,omitempty" jsonschema_description:"The normalized decision round"`
}

// EncodeResult is the structured output of encode_answers.
type EncodeResult struct {
	Reply string `json:"reply" jsonschema_description:"Reply text, one line per question"`
}

// DecodeResult is the structured output of decode_reply.
type DecodeResult struct {
	Answers []domain.Answer `json:"answers" jsonschema_description:"One answer per question, in order"`
}

type parseArgs struct {
	Message string `mapstructure:"message"`
	Dialect string `mapstructure:"dialect"`
}

type encodeArgs struct {
	Round   string `mapstructure:"round"`
	Answers string `mapstructure:"answers"`
}

type decodeToolArgs struct {
	Round string `mapstructure:"round"`
	Reply string `mapstructure:"reply"`
}

// Server exposes the decision-point protocol as MCP tools and resources.
type Server struct {
	dialect   grammar.Dialect
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithDialect sets the dialect used when a tool call names none.
func WithDialect(d grammar.Dialect) Option {
	return func(s *Server) { s.dialect = d }
}

// WithLifecycleHooks forwards hooks to the engines behind the tools.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) { s.hooks = hooks }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new MCP Server instance.
func NewServer(opts ...Option) *Server {
	s := &Server{
		dialect: grammar.Strict,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("crossroads-mcp", strings.TrimSpace(crossroads.Version),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("parse_decision_points",
		mcp.WithDescription("Extract the Decision points round from an agent message. found is false when the message has none."),
		mcp.WithString("message", mcp.Required(), mcp.Description("The agent's message text")),
		mcp.WithString("dialect", mcp.Description("strict (default) or lenient")),
		mcp.WithOutputSchema[ParseResult](),
	), mcp.NewStructuredToolHandler(s.handleParse))

	s.mcpServer.AddTool(mcp.NewTool("encode_answers",
		mcp.WithDescription("Encode the operator's answers as the reply the agent expects."),
		mcp.WithString("round", mcp.Required(), mcp.Description("JSON round as returned by parse_decision_points")),
		mcp.WithString("answers", mcp.Required(), mcp.Description(`JSON array of answers: [{"selected":[0]},{"free_text":"..."}]`)),
		mcp.WithOutputSchema[EncodeResult](),
	), mcp.NewStructuredToolHandler(s.handleEncode))

	s.mcpServer.AddTool(mcp.NewTool("decode_reply",
		mcp.WithDescription("Decode a reply back into per-question answers."),
		mcp.WithString("round", mcp.Required(), mcp.Description("JSON round the reply answers")),
		mcp.WithString("reply", mcp.Required(), mcp.Description("Reply text, one line per question")),
		mcp.WithOutputSchema[DecodeResult](),
	), mcp.NewStructuredToolHandler(s.handleDecode))

	s.mcpServer.AddTool(mcp.NewTool("developer_instructions",
		mcp.WithDescription("Get the Plan Mode developer instructions for a dialect."),
		mcp.WithString("dialect", mcp.Description("strict (default) or lenient")),
	), s.handleInstructions)
}

func (s *Server) engine(name string) (*crossroads.Engine, error) {
	d := s.dialect
	if name != "" {
		var err error
		if d, err = grammar.ParseDialect(name); err != nil {
			return nil, err
		}
	}
	return crossroads.New(
		crossroads.WithDialect(d),
		crossroads.WithLogger(s.logger),
		crossroads.WithLifecycleHooks(s.hooks),
	), nil
}

func (s *Server) handleParse(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ParseResult, error) {
	var in parseArgs
	if err := decodeArgs(args, &in); err != nil {
		return ParseResult{}, err
	}
	eng, err := s.engine(in.Dialect)
	if err != nil {
		return ParseResult{}, err
	}

	res := ParseResult{Dialect: eng.Dialect().Name}
	if round, ok := eng.Parse(ctx, in.Message); ok {
		res.Found = true
		res.Round = &round
	}
	return res, nil
}

func (s *Server) handleEncode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EncodeResult, error) {
	var in encodeArgs
	if err := decodeArgs(args, &in); err != nil {
		return EncodeResult{}, err
	}
	round, err := parseRound(in.Round)
	if err != nil {
		return EncodeResult{}, err
	}
	var answers []domain.Answer
	if err := json.Unmarshal([]byte(in.Answers), &answers); err != nil {
		return EncodeResult{}, fmt.Errorf("invalid answers JSON: %w", err)
	}
	if err := codec.Validate(round, answers); err != nil {
		return EncodeResult{}, err
	}
	return EncodeResult{Reply: codec.Encode(round, answers)}, nil
}

func (s *Server) handleDecode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DecodeResult, error) {
	var in decodeToolArgs
	if err := decodeArgs(args, &in); err != nil {
		return DecodeResult{}, err
	}
	round, err := parseRound(in.Round)
	if err != nil {
		return DecodeResult{}, err
	}
	answers, err := codec.Decode(round, in.Reply)
	if err != nil {
		return DecodeResult{}, err
	}
	return DecodeResult{Answers: answers}, nil
}

func (s *Server) handleInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := request.GetString("dialect", "")
	eng, err := s.engine(name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(eng.Instructions()), nil
}

func (s *Server) registerResources() {
	for _, d := range grammar.Dialects() {
		uri := instructionsURI(d)
		text := grammar.Instructions(d)
		s.mcpServer.AddResource(mcp.NewResource(uri, "Developer instructions ("+d.Name+")",
			mcp.WithMIMEType("text/plain"),
		), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
			return []mcp.ResourceContents{
				mcp.TextResourceContents{
					URI:      uri,
					MIMEType: "text/plain",
					Text:     text,
				},
			}, nil
		})
	}
}

func instructionsURI(d grammar.Dialect) string {
	return "crossroads://instructions/" + d.Name
}

// decodeArgs maps loosely typed tool arguments onto a struct.
func decodeArgs(args map[string]interface{}, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(args); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func parseRound(raw string) (domain.Round, error) {
	var round domain.Round
	if err := json.Unmarshal([]byte(raw), &round); err != nil {
		return domain.Round{}, fmt.Errorf("invalid round JSON: %w", err)
	}
	if err := round.Validate(); err != nil {
		return domain.Round{}, err
	}
	return round, nil
}
