package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"pattooweb/internal/logging"
	"pattooweb/internal/testsupport"
	"pattooweb/internal/web"
)

func TestStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	srv := httptest.NewServer(web.New(cfg, logging.NewNop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, body)
	}

	post, err := http.Post(srv.URL+"/status", "text/plain", nil)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	_ = post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST, got %d", post.StatusCode)
	}
}

func TestStaticFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Server.StaticDir = filepath.Join(testsupport.BaseDir(cfg), "static")
	testsupport.WriteText(t, filepath.Join(cfg.Server.StaticDir, "css", "site.css"), "body{}")

	srv := httptest.NewServer(web.New(cfg, logging.NewNop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/static/css/site.css")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "body{}" {
		t.Fatalf("unexpected response %d %q", resp.StatusCode, body)
	}
}

func TestStaticDirMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Server.StaticDir = filepath.Join(testsupport.BaseDir(cfg), "absent")

	srv := httptest.NewServer(web.New(cfg, logging.NewNop()))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/static/site.css")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}
