package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"slices"
	"strings"

	"github.com/matzehuels/deprep/pkg/cache"
	"github.com/matzehuels/deprep/pkg/deps"
	"github.com/matzehuels/deprep/pkg/deps/manifest"
	"github.com/matzehuels/deprep/pkg/errors"
)

// CheckResponse is the body returned by POST /v1/check.
type CheckResponse struct {
	Manager  string         `json:"manager"`
	Report   *deps.Report   `json:"report"`
	Failures []FailureEntry `json:"failures"`
	Ignored  []string       `json:"ignored,omitempty"`
	Degraded bool           `json:"degraded"`
}

// FailureEntry describes a dependency that could not be resolved.
type FailureEntry struct {
	Name  string      `json:"name"`
	From  string      `json:"from"`
	Code  errors.Code `json:"code,omitempty"`
	Error string      `json:"error"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := s.requestLogger(ctx)

	name := r.URL.Query().Get("manager")
	if name == "" {
		name = s.cfg.Managers[0].Name
	}
	mgr, err := deps.FindManager(name, s.cfg.Managers...)
	if err != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "%v", err))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
				Code:    errors.ErrCodeInvalidInput,
				Message: fmt.Sprintf("manifest exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		writeError(w, errors.Wrap(errors.ErrCodeManifestLoad, err, "read request body"))
		return
	}

	m, err := manifest.Parse(body, bodyFormat(r))
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidManifest, err, "parse manifest"))
		return
	}

	specs := manifest.Extract(m, func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	})
	var skipped []string
	for _, n := range append(ignored(r), s.cfg.Ignore...) {
		if _, ok := specs[n]; ok && !slices.Contains(skipped, n) {
			skipped = append(skipped, n)
		}
	}
	specs = specs.Without(skipped...)

	lookups := cache.NewMemoryCache(cache.DefaultSize, cache.DefaultTTL)
	defer lookups.Close()

	regCfg := s.cfg.Registry
	regCfg.Cache = lookups

	opts := s.cfg.Options
	opts.Logger = func(format string, args ...any) {
		logger.Warn(fmt.Sprintf(format, args...))
	}
	opts.Progress = nil

	report, err := deps.NewEngine(mgr.Resolver(regCfg), opts).Analyze(ctx, specs)
	if err != nil {
		logger.Warn("check interrupted", "err", err)
		writeError(w, interruptedError(err))
		return
	}
	if report.Degraded() {
		logger.Warn("no dependency could be resolved", "manager", mgr.Name, "failed", len(report.Failures()))
	}

	writeJSON(w, http.StatusOK, CheckResponse{
		Manager:  mgr.Name,
		Report:   report,
		Failures: failureEntries(report.Failures()),
		Ignored:  skipped,
		Degraded: report.Degraded(),
	})
}

func bodyFormat(r *http.Request) manifest.Format {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "yaml", "yml":
		return manifest.YAML
	case "json":
		return manifest.JSON
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.Contains(mt, "yaml") {
		return manifest.YAML
	}
	return manifest.JSON
}

func ignored(r *http.Request) []string {
	var names []string
	for _, v := range r.URL.Query()["ignore"] {
		for _, n := range strings.Split(v, ",") {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
	}
	return names
}

func failureEntries(failures []deps.Failure) []FailureEntry {
	out := make([]FailureEntry, 0, len(failures))
	for _, f := range failures {
		out = append(out, FailureEntry{
			Name:  f.Name,
			From:  f.From,
			Code:  f.Code(),
			Error: message(f.Err),
		})
	}
	return out
}

func interruptedError(err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Wrap(errors.ErrCodeTimeout, err, "check did not finish")
	}
	return errors.Wrap(errors.ErrCodeCanceled, err, "check was canceled")
}

func statusOf(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidManifest, errors.ErrCodeManifestLoad:
		return http.StatusBadRequest
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeCanceled:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, statusOf(code), ErrorResponse{Code: code, Message: message(err)})
}

// message renders err without its code prefix.
func message(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return errors.UserMessage(err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
