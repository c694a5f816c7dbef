package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestArchiveURL(t *testing.T) {
	src, _ := ParseSource("owner/repo/sub")

	c := NewClient()
	if got := c.ArchiveURL(src); got != "https://github.com/owner/repo/archive/HEAD.tar.gz" {
		t.Errorf("ArchiveURL() = %q", got)
	}

	c = NewClient(WithBaseURL("http://localhost:1234/"))
	if got := c.ArchiveURL(src); got != "http://localhost:1234/owner/repo/archive/HEAD.tar.gz" {
		t.Errorf("ArchiveURL() with base = %q", got)
	}
}

func TestClientNoCacheByDefault(t *testing.T) {
	var hits int32
	tarball := buildTarball(t, "repo-main", map[string]string{"a.md": "a"})
	server := setupArchiveServer(t, map[string][]byte{"/o/repo/archive/HEAD.tar.gz": tarball}, &hits)
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	src, _ := ParseSource("o/repo")
	for i := 0; i < 2; i++ {
		if _, err := c.Archive(context.Background(), src); err != nil {
			t.Fatalf("Archive() error: %v", err)
		}
	}
	if hits != 2 {
		t.Errorf("server hits = %d, want 2 (no caching)", hits)
	}
}

func TestClientWithCache(t *testing.T) {
	var hits int32
	tarball := buildTarball(t, "repo-main", map[string]string{"a.md": "a"})
	server := setupArchiveServer(t, map[string][]byte{"/o/repo/archive/HEAD.tar.gz": tarball}, &hits)
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithCache(time.Minute))
	src, _ := ParseSource("o/repo/a")
	other, _ := ParseSource("o/repo/b")
	if _, err := c.Archive(context.Background(), src); err != nil {
		t.Fatalf("Archive() error: %v", err)
	}
	if _, err := c.Archive(context.Background(), other); err != nil {
		t.Fatalf("cached Archive() error: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("server hits = %d, want 1 (same archive cached)", hits)
	}
}

func TestClientToken(t *testing.T) {
	var received string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received = r.Header.Get("Authorization")
		w.Write([]byte("data"))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()), WithToken("ghp_test"))

	src, _ := ParseSource("o/repo")
	c.Archive(context.Background(), src)
	if received != "Bearer ghp_test" {
		t.Errorf("Authorization = %q, want %q", received, "Bearer ghp_test")
	}

	received = ""
	gl, _ := ParseSource("gitlab:o/repo")
	c.Archive(context.Background(), gl)
	if received != "" {
		t.Errorf("token must not be sent to other hosts, got %q", received)
	}
}

func TestClientHTMLResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>login</html>"))
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	src, _ := ParseSource("o/repo")
	if _, err := c.Archive(context.Background(), src); err == nil {
		t.Error("expected error for HTML response")
	}
}

func TestClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(WithBaseURL(server.URL), WithHTTPClient(server.Client()))
	src, _ := ParseSource("o/repo")
	if _, err := c.Archive(context.Background(), src); err == nil {
		t.Error("expected error for HTTP 500")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(-time.Second)
	c.Set("k", []byte("v"))
	if _, ok := c.Get("k"); ok {
		t.Error("expired entry should not be returned")
	}

	c = NewCache(time.Minute)
	c.Set("k", []byte("v"))
	if v, ok := c.Get("k"); !ok || string(v) != "v" {
		t.Errorf("Get() = %q, %v", v, ok)
	}
}
