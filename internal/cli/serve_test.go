package cli

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/funnel/pkg/cache"
	"github.com/matzehuels/funnel/pkg/errors"
	"github.com/matzehuels/funnel/pkg/funnel/textlabel"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	fonts, err := textlabel.NewGoFonts()
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(newRouter(log.New(io.Discard), fonts, cache.NewMemoryCache(8), time.Minute))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/toml", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if !strings.HasPrefix(string(body), "ok funnel") {
		t.Errorf("body = %q, want ok with build info", body)
	}
}

func TestServeRender(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name        string
		query       string
		contentType string
		prefix      string
	}{
		{"default svg", "", "image/svg+xml", "<svg"},
		{"svg", "?format=svg", "image/svg+xml", "<svg"},
		{"json", "?format=json", "application/json", "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/render"+tt.query, testChart)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			body, _ := io.ReadAll(resp.Body)
			if !strings.HasPrefix(string(body), tt.prefix) {
				t.Errorf("body starts with %.20q, want %q", body, tt.prefix)
			}
		})
	}
}

func TestServeRenderCache(t *testing.T) {
	srv := newTestServer(t)

	want := []string{"MISS", "HIT"}
	var bodies []string
	for i, status := range want {
		resp := post(t, srv.URL+"/render?format=json", testChart)
		if got := resp.Header.Get(cacheHeader); got != status {
			t.Errorf("request %d %s = %q, want %q", i, cacheHeader, got, status)
		}
		body, _ := io.ReadAll(resp.Body)
		bodies = append(bodies, string(body))
	}
	if bodies[0] != bodies[1] {
		t.Error("cached response should match the rendered one")
	}

	resp := post(t, srv.URL+"/render?format=svg", testChart)
	if got := resp.Header.Get(cacheHeader); got != "MISS" {
		t.Errorf("other format %s = %q, want MISS", cacheHeader, got)
	}
}

func TestServeErrors(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   errors.Code
	}{
		{"unknown format", "/render?format=pdf", testChart, http.StatusNotAcceptable, errors.ErrCodeUnsupported},
		{"bad toml", "/render", "title = ", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown key", "/render", "colour = 1\n" + testChart, http.StatusBadRequest, errors.ErrCodeInvalidConfig},
		{"no segments", "/render", `title = "empty"`, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad point", "/hittest?x=a&y=1", testChart, http.StatusBadRequest, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+tt.path, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var got errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if got.Code != string(tt.code) {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
			if got.Message == "" {
				t.Error("error response should carry a message")
			}
		})
	}
}

func TestServeHitTest(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name string
		x, y string
		want hitResponse
	}{
		{"segment", "300", "60", hitResponse{Hit: true, ID: 0, Type: "segment"}},
		{"miss", "1", "1", hitResponse{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/hittest?x="+tt.x+"&y="+tt.y, testChart)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
			}
			var got hitResponse
			if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("hittest(%s, %s) = %+v, want %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestServeHitTestFirstSegmentHasID(t *testing.T) {
	srv := newTestServer(t)

	resp := post(t, srv.URL+"/hittest?x=300&y=60", testChart)
	body, _ := io.ReadAll(resp.Body)

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatal(err)
	}
	if id, ok := raw["id"]; !ok || id != float64(0) {
		t.Errorf("hittest body = %s, want \"id\": 0", body)
	}
}

func TestServeRequestID(t *testing.T) {
	srv := newTestServer(t)

	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != id {
		t.Errorf("%s = %q, want echoed %q", requestIDHeader, got, id)
	}

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	req.Header.Set(requestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	got := resp.Header.Get(requestIDHeader)
	if _, err := uuid.Parse(got); err != nil || got == "not-a-uuid" {
		t.Errorf("%s = %q, want a generated uuid", requestIDHeader, got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidGeometry, http.StatusBadRequest},
		{errors.ErrCodeUnsupported, http.StatusNotAcceptable},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := statusFor(errors.New(tt.code, "x")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
