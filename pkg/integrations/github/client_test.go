package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matzehuels/deprep/pkg/integrations"
)

func testClient(t *testing.T, serverURL, token string) *Client {
	t.Helper()
	return NewClient(nil, token).WithBaseURL(serverURL)
}

func TestClient_LatestRelease(t *testing.T) {
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if r.URL.Path != "/repos/jquery/jquery-dist/tags" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]tagResponse{
			{Name: "4.0.0-beta.2"},
			{Name: "3.7.1"},
			{Name: "v3.10.0"},
			{Name: "3.7.0"},
			{Name: "gh-pages"},
		})
	}))
	defer server.Close()

	c := testClient(t, server.URL, "tok")

	got, err := c.LatestRelease(context.Background(), "jquery", "jquery-dist")
	if err != nil {
		t.Fatalf("LatestRelease() error: %v", err)
	}
	if got != "3.10.0" {
		t.Errorf("LatestRelease() = %q, want 3.10.0", got)
	}
	if auth != "Bearer tok" {
		t.Errorf("Authorization = %q", auth)
	}
}

func TestClient_TagsPaginates(t *testing.T) {
	pages := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages++
		var tags []tagResponse
		if r.URL.Query().Get("page") == "1" {
			for i := range 100 {
				tags = append(tags, tagResponse{Name: fmt.Sprintf("1.0.%d", i)})
			}
		} else {
			tags = []tagResponse{{Name: "0.9.0"}}
		}
		json.NewEncoder(w).Encode(tags)
	}))
	defer server.Close()

	tags, err := testClient(t, server.URL, "").Tags(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("Tags() error: %v", err)
	}
	if len(tags) != 101 {
		t.Errorf("len(Tags()) = %d, want 101", len(tags))
	}
	if pages != 2 {
		t.Errorf("pages fetched = %d, want 2", pages)
	}
}

func TestClient_LatestReleaseNoTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"nightly"}]`))
	}))
	defer server.Close()

	_, err := testClient(t, server.URL, "").LatestRelease(context.Background(), "o", "r")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("LatestRelease() error = %v, want ErrNotFound", err)
	}
}

func TestClient_RepoNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := testClient(t, server.URL, "").Tags(context.Background(), "o", "gone")
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Tags() error = %v, want ErrNotFound", err)
	}
}

func TestParseRepoURL(t *testing.T) {
	tests := []struct {
		url       string
		wantOwner string
		wantRepo  string
		wantOK    bool
	}{
		{"https://github.com/foo/bar", "foo", "bar", true},
		{"git://github.com/jquery/jquery-dist.git", "jquery", "jquery-dist", true},
		{"git@github.com:twbs/bootstrap.git", "twbs", "bootstrap", true},
		{"http://github.com/baz/qux/tree/main", "baz", "qux", true},
		{"https://gitlab.com/foo/bar", "", "", false},
		{"", "", "", false},
	}

	for _, tt := range tests {
		owner, repo, ok := ParseRepoURL(tt.url)
		if ok != tt.wantOK {
			t.Errorf("ParseRepoURL(%q) ok=%v, want %v", tt.url, ok, tt.wantOK)
			continue
		}
		if owner != tt.wantOwner || repo != tt.wantRepo {
			t.Errorf("ParseRepoURL(%q) = %s/%s, want %s/%s", tt.url, owner, repo, tt.wantOwner, tt.wantRepo)
		}
	}
}
