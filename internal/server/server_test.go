package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/deprep/pkg/deps"
	"github.com/matzehuels/deprep/pkg/errors"
)

type staticResolver map[string]string

func (staticResolver) Name() string { return "static" }

func (r staticResolver) Latest(_ context.Context, name string) (string, error) {
	v, ok := r[name]
	if !ok {
		return "", errors.New(errors.ErrCodePackageNotFound, "%s not found", name)
	}
	return v, nil
}

func newTestServer(t *testing.T, latest map[string]string, mutate ...func(*Config)) *Server {
	t.Helper()
	cfg := Config{
		Managers: []*deps.Manager{{
			Name:        "static",
			NewResolver: func(deps.RegistryConfig) deps.Resolver { return staticResolver(latest) },
		}},
		Logger: log.New(io.Discard),
	}
	for _, m := range mutate {
		m(&cfg)
	}
	return New(cfg)
}

func do(t *testing.T, s *Server, method, target, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeCheck(t *testing.T, rec *httptest.ResponseRecorder) CheckResponse {
	t.Helper()
	var raw struct {
		CheckResponse
		Report map[string]deps.Result `json:"report"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	return raw.CheckResponse
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))

	rec = do(t, s, http.MethodGet, "/healthz", "", HeaderRequestID, "req-42")
	assert.Equal(t, "req-42", rec.Header().Get(HeaderRequestID))
}

func TestCheck_EndToEnd(t *testing.T) {
	s := newTestServer(t, map[string]string{"a": "1.0.5", "b": "2.3.0"})

	rec := do(t, s, http.MethodPost, "/v1/check", `{
		"dependencies": {"a": "^1.0.0", "c": "git://github.com/x/c.git"},
		"devDependencies": {"b": "~2.2.0"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `{
		"a": {"from": "^1.0.0", "to": "1.0.5", "satisfied": true},
		"b": {"from": "~2.2.0", "to": "2.3.0", "satisfied": false, "diff": "minor"}
	}`, string(body["report"]))
	assert.JSONEq(t, `[]`, string(body["failures"]))
	assert.JSONEq(t, `false`, string(body["degraded"]))
	assert.JSONEq(t, `"static"`, string(body["manager"]))
}

func TestCheck_PartialFailure(t *testing.T) {
	s := newTestServer(t, map[string]string{"a": "1.0.0", "c": "3.0.0"})

	rec := do(t, s, http.MethodPost, "/v1/check", `{"dependencies": {"a": "1.0.0", "b": "^1.0.0", "c": "^2.0.0"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCheck(t, rec)
	assert.False(t, resp.Degraded)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "b", resp.Failures[0].Name)
	assert.Equal(t, "^1.0.0", resp.Failures[0].From)
	assert.Equal(t, errors.ErrCodePackageNotFound, resp.Failures[0].Code)
}

func TestCheck_Degraded(t *testing.T) {
	s := newTestServer(t, map[string]string{})

	rec := do(t, s, http.MethodPost, "/v1/check", `{"dependencies": {"a": "^1.0.0"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCheck(t, rec)
	assert.True(t, resp.Degraded)
	assert.Len(t, resp.Failures, 1)
}

func TestCheck_IgnoreAndYAML(t *testing.T) {
	s := newTestServer(t, map[string]string{"a": "2.0.0", "b": "1.0.0"})

	rec := do(t, s, http.MethodPost, "/v1/check?ignore=b,zzz", "dependencies:\n  a: ^1.2.0\n  b: 1.0.0\n",
		"Content-Type", "application/yaml")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var raw struct {
		Report  map[string]deps.Result `json:"report"`
		Ignored []string               `json:"ignored"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, []string{"b"}, raw.Ignored)
	require.Contains(t, raw.Report, "a")
	assert.NotContains(t, raw.Report, "b")
	assert.Equal(t, "major", string(raw.Report["a"].Change))
}

func TestCheck_ConfiguredIgnore(t *testing.T) {
	s := newTestServer(t, map[string]string{"a": "1.0.0"}, func(c *Config) { c.Ignore = []string{"b"} })

	rec := do(t, s, http.MethodPost, "/v1/check?ignore=b", `{"dependencies": {"a": "1.0.0", "b": "1.0.0"}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeCheck(t, rec)
	assert.Equal(t, []string{"b"}, resp.Ignored)
	assert.Empty(t, resp.Failures)
}

func TestCheck_Errors(t *testing.T) {
	s := newTestServer(t, nil, func(c *Config) { c.MaxBody = 64 })

	tests := []struct {
		name   string
		target string
		body   string
		status int
		code   errors.Code
	}{
		{"invalid manifest", "/v1/check", `{"dependencies": [1, 2]`, http.StatusBadRequest, errors.ErrCodeInvalidManifest},
		{"unknown manager", "/v1/check?manager=cargo", `{}`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"too large", "/v1/check", `{"dependencies": {"` + strings.Repeat("a", 100) + `": "1.0.0"}}`, http.StatusRequestEntityTooLarge, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.body)
			assert.Equal(t, tt.status, rec.Code)

			var e ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.Equal(t, tt.code, e.Code)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestCheck_EmptyManifest(t *testing.T) {
	s := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/check", `{"name": "empty"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.JSONEq(t, `{}`, string(body["report"]))
	assert.JSONEq(t, `false`, string(body["degraded"]))
}

func TestMetricsRoute(t *testing.T) {
	s := newTestServer(t, nil)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/metrics", "").Code)

	s = newTestServer(t, nil, func(c *Config) {
		c.Metrics = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			io.WriteString(w, "deprep_up 1\n")
		})
	})
	rec := do(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "deprep_up 1\n", rec.Body.String())
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s := newTestServer(t, nil, func(c *Config) { c.Addr = "127.0.0.1:0" })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.ListenAndServe(ctx))
}
