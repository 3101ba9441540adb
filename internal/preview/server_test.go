package preview

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/chrissnell/plantclimate/internal/catalog"
	"github.com/chrissnell/plantclimate/internal/climate"
	"github.com/chrissnell/plantclimate/internal/sampler"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ds, err := climate.Generate(climate.DefaultProfiles(), 91, sampler.NewSource(17))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return NewServer("127.0.0.1", 0, catalog.Default(), ds, zap.NewNop().Sugar())
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		path        string
		status      int
		contentType string
		contains    string
		lines       int
	}{
		{path: "/", status: http.StatusOK, contentType: "text/html", contains: "Temperature Comparison Across Climates"},
		{path: "/charts/plants", status: http.StatusOK, contentType: "text/html", contains: "Plant Data"},
		{path: "/charts/temperature", status: http.StatusOK, contentType: "text/html", contains: "Mediterranean Temperature"},
		{path: "/charts/sun-rain", status: http.StatusOK, contentType: "text/html", contains: "Continental Sunlight (hours)"},
		{path: "/charts/humidity", status: http.StatusNotFound},
		{path: "/data/plants.csv", status: http.StatusOK, contentType: "text/csv", contains: "Passiflore", lines: 5},
		{path: "/data/climate.csv", status: http.StatusOK, contentType: "text/csv", contains: "Tropical Sun Rate", lines: 365},
		{path: "/healthz", status: http.StatusOK, contains: "ok"},
		{path: "/missing", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rr.Code != tt.status {
				t.Fatalf("GET %s status = %d, expected %d", tt.path, rr.Code, tt.status)
			}
			if tt.contentType != "" && !strings.HasPrefix(rr.Header().Get("Content-Type"), tt.contentType) {
				t.Errorf("Content-Type = %q, expected %s", rr.Header().Get("Content-Type"), tt.contentType)
			}

			body := rr.Body.String()
			if tt.contains != "" && !strings.Contains(body, tt.contains) {
				t.Errorf("GET %s body does not contain %q", tt.path, tt.contains)
			}
			if tt.lines > 0 {
				if got := len(strings.Split(strings.TrimRight(body, "\r\n"), "\n")); got != tt.lines {
					t.Errorf("GET %s returned %d lines, expected %d", tt.path, got, tt.lines)
				}
			}
		})
	}
}

func TestRejectsNonGet(t *testing.T) {
	s := newTestServer(t)

	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/data/plants.csv", nil))

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, expected %d", rr.Code, http.StatusMethodNotAllowed)
	}
}

func TestServeShutsDownOnCancel(t *testing.T) {
	s := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.TrimSpace(string(body)) != "ok" {
		t.Errorf("healthz body = %q", body)
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestSummary(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		url    string
		decode func([]byte, any) error
	}{
		{"json", "/data/summary", json.Unmarshal},
		{"msgpack", "/data/summary?format=msgpack", decodeMsgPack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d", rr.Code)
			}

			var got DatasetSummary
			if err := tt.decode(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}

			if got.Days != 364 || got.DaysPerSeason != 91 {
				t.Errorf("days = %d/%d, expected 364/91", got.Days, got.DaysPerSeason)
			}
			if len(got.Plants) != 4 {
				t.Errorf("plants = %v", got.Plants)
			}
			if len(got.Climates) != 3 || got.Climates[2].Name != "Continental" {
				t.Fatalf("climates = %+v", got.Climates)
			}

			cont := got.Climates[2].Temperature
			if cont.Min < -10 || cont.Max > 25 || cont.Count != 364 {
				t.Errorf("Continental temperature summary = %+v", cont)
			}
		})
	}
}

func decodeMsgPack(b []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
