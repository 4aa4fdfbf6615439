// Package server exposes the trained tokenizer over HTTP: POST /tokenize
// with per-word token detail, GET /vocab statistics, and GET /health.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/example/telugu-bpe/internal/config"
	"github.com/example/telugu-bpe/internal/text"
	"github.com/example/telugu-bpe/internal/tokenizer"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes int
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes: 4096,
		logger:       slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /tokenize.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

// TokenizeRequest is the POST /tokenize body.
type TokenizeRequest struct {
	Text string `json:"text" binding:"required"`
}

// TokenRef is one token id with its rendered text.
type TokenRef struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// TokenDetail describes how one word tokenized. Type is "complete_word"
// when the whole word collapsed to a single token (TokenID/Text set), or
// "subword_tokens" when it split (Tokens set).
type TokenDetail struct {
	Word    string     `json:"word"`
	Type    string     `json:"type"`
	TokenID *int       `json:"token_id,omitempty"`
	Text    string     `json:"text,omitempty"`
	Tokens  []TokenRef `json:"tokens,omitempty"`
}

// TokenizeResponse is the POST /tokenize reply.
type TokenizeResponse struct {
	Original     string        `json:"original"`
	Tokens       []int         `json:"tokens"`
	TokenDetails []TokenDetail `json:"token_details"`
	Decoded      string        `json:"decoded"`
	Matches      bool          `json:"matches"`
}

// VocabResponse is the GET /vocab reply.
type VocabResponse struct {
	VocabSize     int `json:"vocab_size"`
	BaseVocabSize int `json:"base_vocab_size"`
	NumMerges     int `json:"num_merges"`
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	model   *tokenizer.Model
	encoder *tokenizer.Encoder
	decoder *tokenizer.Decoder
	opts    options
	log     *slog.Logger
}

// NewHandler returns an http.Handler serving /health, /vocab, and POST
// /tokenize over an immutable model snapshot. Requests may run
// concurrently; nothing here mutates shared state.
func NewHandler(model *tokenizer.Model, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		model:   model,
		encoder: tokenizer.NewEncoder(model),
		decoder: tokenizer.NewDecoder(model.Vocab),
		opts:    opts,
		log:     opts.logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())

	router.GET("/health", h.handleHealth)
	router.GET("/vocab", h.handleVocab)
	router.POST("/tokenize", h.handleTokenize)
	return router
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleVocab(c *gin.Context) {
	c.JSON(http.StatusOK, VocabResponse{
		VocabSize:     h.model.Vocab.Size(),
		BaseVocabSize: h.model.Vocab.BaseSize(),
		NumMerges:     len(h.model.Merges),
	})
}

func (h *handler) handleTokenize(c *gin.Context) {
	var req TokenizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: text field is required"})
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes),
		})
		return
	}

	normalized, err := text.Normalize(req.Text)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is empty"})
		return
	}

	start := time.Now()
	enc := h.encoder.Encode(normalized)
	decoded, err := h.decoder.DecodeEncoding(enc)
	if err != nil {
		h.log.ErrorContext(c.Request.Context(), "decode failed",
			slog.Int("text_len", len(req.Text)),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := TokenizeResponse{
		Original:     req.Text,
		Tokens:       enc.TokenIDs(),
		TokenDetails: buildTokenDetails(enc),
		Decoded:      decoded,
		Matches:      decoded == normalized,
	}
	if resp.Tokens == nil {
		resp.Tokens = []int{}
	}

	h.log.InfoContext(c.Request.Context(), "tokenize complete",
		slog.Int("text_len", len(req.Text)),
		slog.Int("tokens", len(resp.Tokens)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		slog.Bool("matches", resp.Matches),
	)

	c.JSON(http.StatusOK, resp)
}

// buildTokenDetails renders the per-word complete-word/subword split. The
// classification is computed from encoder output, never stored in the core.
func buildTokenDetails(enc *tokenizer.Encoding) []TokenDetail {
	details := make([]TokenDetail, 0, len(enc.Words))
	for _, w := range enc.Words {
		if w.IsComplete() {
			id := w.IDs[0]
			details = append(details, TokenDetail{
				Word:    w.Text,
				Type:    "complete_word",
				TokenID: &id,
				Text:    w.Texts[0],
			})
			continue
		}

		refs := make([]TokenRef, len(w.IDs))
		for i, id := range w.IDs {
			refs[i] = TokenRef{ID: id, Text: w.Texts[i]}
		}
		details = append(details, TokenDetail{
			Word:   w.Text,
			Type:   "subword_tokens",
			Tokens: refs,
		})
	}
	return details
}

// ---------------------------------------------------------------------------
// Server — wires handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server wires the HTTP handler into a net/http.Server with graceful shutdown.
type Server struct {
	cfg             config.Config
	model           *tokenizer.Model
	shutdownTimeout time.Duration
}

func New(cfg config.Config, model *tokenizer.Model) *Server {
	return &Server{
		cfg:             cfg,
		model:           model,
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	h := NewHandler(s.model,
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(s.cfg.Server.RequestTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Server.RequestTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

// ProbeHTTP checks the /health endpoint of a running server.
func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
