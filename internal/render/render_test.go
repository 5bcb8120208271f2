package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": &fstest.MapFile{
			Data: []byte(`{{define "base"}}<html><body>{{template "content" .}}</body></html>{{end}}`),
		},
		"layouts/admin.html": &fstest.MapFile{
			Data: []byte(`{{define "admin-nav"}}<nav>admin</nav>{{end}}`),
		},
		"partials/flash.html": &fstest.MapFile{
			Data: []byte(`{{define "flash"}}{{if .Flash}}<div class="{{.FlashType}}">{{.Flash}}</div>{{end}}{{end}}`),
		},
		"site/home.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}{{template "flash" .}}<h1>{{.Title}}</h1>{{end}}`),
		},
		"auth/login.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}<form></form>{{end}}`),
		},
		"admin/dashboard.html": &fstest.MapFile{
			Data: []byte(`{{define "content"}}{{template "admin-nav" .}}<p>dash</p>{{end}}`),
		},
	}
}

func TestNew_ParsesAllGroups(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, name := range []string{"site/home", "auth/login", "admin/dashboard"} {
		if _, ok := r.templates[name]; !ok {
			t.Errorf("template %q not parsed", name)
		}
	}
}

func TestRender(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	if err := r.Render(rr, req, "site/home", TemplateData{Title: "The Network"}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	body := rr.Body.String()
	if !strings.Contains(body, "<h1>The Network</h1>") {
		t.Errorf("body = %q, want title heading", body)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestRender_UnknownTemplate(t *testing.T) {
	r, err := New(Config{TemplatesFS: testTemplatesFS()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := httptest.NewRecorder()

	if err := r.Render(rr, req, "site/missing", TemplateData{}); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains string
		excludes string
	}{
		{"basic formatting", "some **bold** text", "<strong>bold</strong>", ""},
		{"links survive", "[club](https://example.com)", `<a href="https://example.com"`, ""},
		{"scripts stripped", "hello <script>alert(1)</script>", "hello", "<script>"},
		{"event handlers stripped", `<img src="x" onerror="alert(1)">`, "", "onerror"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(Markdown(tt.source))
			if tt.contains != "" && !strings.Contains(got, tt.contains) {
				t.Errorf("Markdown(%q) = %q, want %q", tt.source, got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("Markdown(%q) = %q, must not contain %q", tt.source, got, tt.excludes)
			}
		})
	}
}

func TestTruncateFunc(t *testing.T) {
	r := &Renderer{}
	truncate := r.templateFuncs()["truncate"].(func(string, int) string)

	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate short = %q", got)
	}
	if got := truncate("a longer sentence", 8); got != "a longer..." {
		t.Errorf("truncate = %q", got)
	}
	// Multi-byte content must not be split mid-rune.
	if got := truncate("héllo wörld", 5); got != "héllo..." {
		t.Errorf("truncate multibyte = %q", got)
	}
}
