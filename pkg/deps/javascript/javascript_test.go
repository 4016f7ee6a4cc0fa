package javascript

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/matzehuels/deprep/pkg/deps"
	"github.com/matzehuels/deprep/pkg/errors"
	"github.com/matzehuels/deprep/pkg/integrations"
)

func TestManager(t *testing.T) {
	tests := []struct {
		name     string
		want     *deps.Manager
		wantErr  bool
		manifest string
	}{
		{"npm", NPM, false, "package.json"},
		{"Bower", Bower, false, "bower.json"},
		{" npm ", NPM, false, "package.json"},
		{"yarn", nil, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Manager(tt.name)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Manager() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Manager() error: %v", err)
			}
			if m != tt.want {
				t.Errorf("Manager() = %s, want %s", m.Name, tt.want.Name)
			}
			if m.DefaultManifest != tt.manifest {
				t.Errorf("DefaultManifest = %q, want %q", m.DefaultManifest, tt.manifest)
			}
		})
	}
}

func TestNPMResolver(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/express":
			w.Write([]byte(`{"dist-tags":{"latest":"4.21.2"}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	res := NPM.Resolver(deps.RegistryConfig{Registry: server.URL})
	if res.Name() != "npm" {
		t.Errorf("Name() = %q", res.Name())
	}

	got, err := res.Latest(context.Background(), "express")
	if err != nil || got != "4.21.2" {
		t.Fatalf("Latest(express) = %q, %v", got, err)
	}

	_, err = res.Latest(context.Background(), "left-pad-gone")
	if !errors.Is(err, errors.ErrCodePackageNotFound) {
		t.Errorf("Latest(missing) error = %v, want PACKAGE_NOT_FOUND", err)
	}

	_, err = res.Latest(context.Background(), "Bad/Name")
	if !errors.Is(err, errors.ErrCodeInvalidPackage) {
		t.Errorf("Latest(invalid) error = %v, want INVALID_PACKAGE", err)
	}
}

func TestBowerResolver_IgnoresNPMRegistry(t *testing.T) {
	var npmHits atomic.Int32
	npmMirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		npmHits.Add(1)
		http.NotFound(w, r)
	}))
	defer npmMirror.Close()

	var bowerPaths []string
	var mu sync.Mutex
	bowerRegistry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		bowerPaths = append(bowerPaths, r.URL.Path)
		mu.Unlock()
		// Not GitHub-hosted, so the lookup stops before any tag request.
		w.Write([]byte(`{"name":"jquery","url":"https://git.example.com/jquery.git"}`))
	}))
	defer bowerRegistry.Close()

	res := Bower.Resolver(deps.RegistryConfig{
		Registry:      npmMirror.URL,
		Token:         "npm-secret",
		BowerRegistry: bowerRegistry.URL,
	})
	_, err := res.Latest(context.Background(), "jquery")
	if !errors.Is(err, errors.ErrCodeInvalidResponse) {
		t.Errorf("Latest(jquery) error = %v, want INVALID_RESPONSE", err)
	}
	if n := npmHits.Load(); n != 0 {
		t.Errorf("npm registry received %d requests, want 0", n)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(bowerPaths) != 1 || bowerPaths[0] != "/packages/jquery" {
		t.Errorf("bower registry paths = %v, want [/packages/jquery]", bowerPaths)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.Code
	}{
		{"not found", fmt.Errorf("%w: npm package x", integrations.ErrNotFound), errors.ErrCodePackageNotFound},
		{"network", fmt.Errorf("%w: status 502", integrations.ErrNetwork), errors.ErrCodeNetwork},
		{"invalid", integrations.ErrInvalidResponse, errors.ErrCodeInvalidResponse},
		{"rate limited", &errors.RateLimitedError{RetryAfter: 3}, errors.ErrCodeRateLimited},
		{"deadline", fmt.Errorf("%w: %w", integrations.ErrNetwork, context.DeadlineExceeded), errors.ErrCodeTimeout},
		{"cancelled", context.Canceled, errors.ErrCodeCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetCode(classify("npm", "x", tt.err)); got != tt.want {
				t.Errorf("classify() code = %s, want %s", got, tt.want)
			}
		})
	}
}
