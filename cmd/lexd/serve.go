// Endpoints served by "lexd serve":
//
//	GET  /api/health
//	POST /api/compile  body: {"source":"...","roots":["..."]}
//	POST /api/paths    body: {"source":"...","roots":["..."],"max_symbols":n}
//	POST /api/lookup   body: {"source":"...","input":"..."}
//
// Compilation and the walk that follows it share one per-request deadline.
// max_symbols may not exceed the server's --paths-max-symbols.

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/katalvlaran/lexd/fst"
	"github.com/katalvlaran/lexd/lexd"
	"github.com/katalvlaran/lexd/reader"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the compiler as a JSON HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().Duration("timeout", 10*time.Second, "Per-request compile timeout")
	serveCmd.Flags().StringSlice("allowed-origins", []string{"*"}, "CORS allowed origins")
	serveCmd.Flags().Int64("max-body", 4<<20, "Maximum request body in bytes")
	serveCmd.Flags().Int("paths-max-symbols", fst.DefaultMaxSymbols, "Largest max_symbols a paths request may ask for")
	serveCmd.Flags().Int("paths-max-pairs", 10000, "Fail a paths request with more pairs than this")

	_ = viper.BindPFlag("addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("timeout", serveCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("allowed_origins", serveCmd.Flags().Lookup("allowed-origins"))
	_ = viper.BindPFlag("max_body", serveCmd.Flags().Lookup("max-body"))
	_ = viper.BindPFlag("paths_max_symbols", serveCmd.Flags().Lookup("paths-max-symbols"))
	_ = viper.BindPFlag("paths_max_pairs", serveCmd.Flags().Lookup("paths-max-pairs"))

	rootCmd.AddCommand(serveCmd)
}

// serverConfig is everything the handlers need.
type serverConfig struct {
	Timeout        time.Duration
	AllowedOrigins []string
	MaxBody        int64
	// MaxSymbols caps a paths request's max_symbols; MaxPaths caps its
	// result. Zero means the fst defaults.
	MaxSymbols int
	MaxPaths   int
	// Options builds fresh compiler options per request.
	Options func() []lexd.Option
	Log     *slog.Logger
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := newLogger(cmd.ErrOrStderr())
	cfg := serverConfig{
		Timeout:        viper.GetDuration("timeout"),
		AllowedOrigins: viper.GetStringSlice("allowed_origins"),
		MaxBody:        viper.GetInt64("max_body"),
		MaxSymbols:     viper.GetInt("paths_max_symbols"),
		MaxPaths:       viper.GetInt("paths_max_pairs"),
		Options:        func() []lexd.Option { return compilerOptions(log) },
		Log:            log,
	}
	addr := viper.GetString("addr")

	srv := &http.Server{
		Addr:              addr,
		Handler:           newHandler(cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Warn("listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// newHandler builds the API mux wrapped in CORS.
func newHandler(cfg serverConfig) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", handleHealth)
	mux.HandleFunc("/api/compile", handleCompile(cfg))
	mux.HandleFunc("/api/paths", handlePaths(cfg))
	mux.HandleFunc("/api/lookup", handleLookup(cfg))

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(mux)
}

// ---- JSON types ----------------------------------------------------------

type compileRequest struct {
	Source     string   `json:"source"`
	Roots      []string `json:"roots,omitempty"`
	Input      string   `json:"input,omitempty"`
	MaxSymbols int      `json:"max_symbols,omitempty"`
}

type compileResponse struct {
	ATT        string          `json:"att"`
	Hypermin   string          `json:"hypermin,omitempty"`
	Statistics lexd.Statistics `json:"statistics"`
}

type pairJSON struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

type pathsResponse struct {
	Paths []pairJSON `json:"paths"`
}

type lookupResponse struct {
	Input   string   `json:"input"`
	Outputs []string `json:"outputs"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Class  string `json:"class,omitempty"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`
}

// ---- helpers -------------------------------------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeGrammarError reports reader and compiler failures with their position.
func writeGrammarError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error()}
	var se *reader.SyntaxError
	var ce *lexd.CompileError
	switch {
	case errors.As(err, &se):
		resp.Class = "syntax"
		resp.Line, resp.Column = se.Pos.Line, se.Pos.Column
	case errors.As(err, &ce):
		resp.Class = lexd.Classify(err).String()
		resp.Line = ce.Line
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

// decodeRequest reads a POST body into req.
func decodeRequest(w http.ResponseWriter, r *http.Request, cfg serverConfig, req *compileRequest) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return false
	}
	body := http.MaxBytesReader(w, r.Body, cfg.MaxBody)
	if err := json.NewDecoder(body).Decode(req); err != nil || strings.TrimSpace(req.Source) == "" {
		writeError(w, http.StatusBadRequest, "body must be JSON with a non-empty 'source' field")
		return false
	}
	return true
}

// statusClientClosed is the nginx convention for a request the client
// abandoned before the response was ready.
const statusClientClosed = 499

// compileResult is what a worker hands back to the request goroutine.
type compileResult struct {
	res *lexd.Result
	c   *lexd.Compiler
	err error
}

// compileWithin runs the compiler and then, when given, after on its
// result, all under the request deadline. Neither step can be interrupted;
// a late result is dropped.
func compileWithin(ctx context.Context, cfg serverConfig, req compileRequest, after func(*lexd.Result) error) (*lexd.Compiler, *lexd.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	done := make(chan compileResult, 1)
	go func() {
		c := lexd.New(cfg.Options()...)
		if err := reader.ReadString(req.Source, c); err != nil {
			done <- compileResult{err: err}
			return
		}
		res, err := c.Build(req.Roots...)
		if err == nil && after != nil {
			err = after(res)
		}
		done <- compileResult{res: res, c: c, err: err}
	}()

	select {
	case r := <-done:
		return r.c, r.res, r.err
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	}
}

// finish writes the error response for a failed request and reports
// whether the handler should continue.
func finish(w http.ResponseWriter, cfg serverConfig, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, context.Canceled):
		cfg.Log.Info("request canceled by client")
		writeError(w, statusClientClosed, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "compilation timed out")
	case errors.Is(err, lexd.ErrInternal):
		cfg.Log.Error("internal compiler error", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.Is(err, fst.ErrPathLimit):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeGrammarError(w, err)
	}
	return false
}

// pathOptions bounds a paths request by the server's limits.
func pathOptions(cfg serverConfig, req compileRequest) ([]fst.PathOption, error) {
	limit := cfg.MaxSymbols
	if limit <= 0 {
		limit = fst.DefaultMaxSymbols
	}
	if req.MaxSymbols < 0 || req.MaxSymbols > limit {
		return nil, fmt.Errorf("'max_symbols' must be between 0 and %d", limit)
	}
	symbols := req.MaxSymbols
	if symbols == 0 {
		symbols = limit
	}
	opts := []fst.PathOption{fst.WithMaxSymbols(symbols)}
	if cfg.MaxPaths > 0 {
		opts = append(opts, fst.WithMaxPaths(cfg.MaxPaths))
	}
	return opts, nil
}

// ---- handlers ------------------------------------------------------------

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleCompile(cfg serverConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req compileRequest
		if !decodeRequest(w, r, cfg, &req) {
			return
		}
		c, res, err := compileWithin(r.Context(), cfg, req, nil)
		if !finish(w, cfg, err) {
			return
		}

		att, err := fst.FormatATT(res.Transducer, res.Alphabet)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp := compileResponse{ATT: att, Statistics: c.Statistics()}
		if res.Hypermin != nil {
			if resp.Hypermin, err = fst.FormatATT(res.Hypermin, res.Alphabet); err != nil {
				writeError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handlePaths(cfg serverConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req compileRequest
		if !decodeRequest(w, r, cfg, &req) {
			return
		}
		opts, err := pathOptions(cfg, req)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		var pairs []fst.PathPair
		_, _, err = compileWithin(r.Context(), cfg, req, func(res *lexd.Result) (err error) {
			pairs, err = fst.Paths(res.Transducer, res.Alphabet, opts...)
			return err
		})
		if !finish(w, cfg, err) {
			return
		}

		out := make([]pairJSON, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, pairJSON{Input: p.Input, Output: p.Output})
		}
		writeJSON(w, http.StatusOK, pathsResponse{Paths: out})
	}
}

func handleLookup(cfg serverConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req compileRequest
		if !decodeRequest(w, r, cfg, &req) {
			return
		}
		var opts []fst.PathOption
		if cfg.MaxPaths > 0 {
			opts = append(opts, fst.WithMaxPaths(cfg.MaxPaths))
		}
		var outs []string
		_, _, err := compileWithin(r.Context(), cfg, req, func(res *lexd.Result) (err error) {
			outs, err = fst.Lookup(res.Transducer, res.Alphabet, req.Input, opts...)
			return err
		})
		if !finish(w, cfg, err) {
			return
		}

		status := http.StatusOK
		if len(outs) == 0 {
			status = http.StatusNotFound
		}
		writeJSON(w, status, lookupResponse{Input: req.Input, Outputs: outs})
	}
}
