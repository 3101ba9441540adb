package log

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHTTPMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		status   int
		size     int
		logLevel string
	}{
		{
			name:     "implicit ok",
			handler:  func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("hello")) },
			status:   http.StatusOK,
			size:     5,
			logLevel: "debug",
		},
		{
			name:     "not found",
			handler:  func(w http.ResponseWriter, r *http.Request) { http.NotFound(w, r) },
			status:   http.StatusNotFound,
			size:     len("404 page not found\n"),
			logLevel: "debug",
		},
		{
			name:     "server error",
			handler:  func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			status:   http.StatusInternalServerError,
			size:     0,
			logLevel: "error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			handler := HTTPMiddleware(zap.New(core).Sugar())(tt.handler)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/charts/plants", nil))

			if rr.Code != tt.status {
				t.Errorf("status = %d, expected %d", rr.Code, tt.status)
			}

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("got %d log entries, expected 1", len(entries))
			}
			entry := entries[0]
			if entry.Level.String() != tt.logLevel {
				t.Errorf("level = %s, expected %s", entry.Level, tt.logLevel)
			}

			fields := entry.ContextMap()
			if fields["path"] != "/charts/plants" {
				t.Errorf("path field = %v", fields["path"])
			}
			if fields["status"] != int64(tt.status) {
				t.Errorf("status field = %v (%T), expected %d", fields["status"], fields["status"], tt.status)
			}
			if fields["size"] != int64(tt.size) {
				t.Errorf("size field = %v, expected %d", fields["size"], tt.size)
			}
		})
	}
}
