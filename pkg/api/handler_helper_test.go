package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMethodRouter(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		method string
		want   string
	}{
		{http.MethodGet, "get"},
		{http.MethodPost, "post"},
		{http.MethodPut, "put"},
		{http.MethodDelete, "delete"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			var called string
			req := httptest.NewRequest(tt.method, "/anything", nil)
			rr := httptest.NewRecorder()

			s.NewMethodRouter(rr, req).
				Get(func() { called = "get" }).
				Post(func() { called = "post" }).
				Put(func() { called = "put" }).
				Delete(func() { called = "delete" }).
				NotAllowed()

			if called != tt.want {
				t.Errorf("Expected %s handler, got %q", tt.want, called)
			}
		})
	}
}

func TestMethodRouterNotAllowed(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPatch, "/anything", nil)
	rr := httptest.NewRecorder()

	s.NewMethodRouter(rr, req).
		Get(func() {}).
		Post(func() {}).
		NotAllowed()

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rr.Code)
	}
}

func TestExtractID(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		prefix string
		wantID string
		wantOK bool
	}{
		{"plain ID", "/devices/cam-1", "/devices/", "cam-1", true},
		{"trailing slash", "/devices/cam-1/", "/devices/", "cam-1", true},
		{"nested segment", "/risks/abc-123/resolve", "/risks/", "abc-123", true},
		{"missing ID", "/devices/", "/devices/", "", false},
		{"wrong prefix", "/other/cam-1", "/devices/", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			extractor := &pathIDExtractor{w: rr, server: s, path: tt.path}
			id, ok := extractor.ExtractID(tt.prefix)

			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("ExtractID(%q) = (%q, %v), want (%q, %v)", tt.path, id, ok, tt.wantID, tt.wantOK)
			}
			if !tt.wantOK && rr.Code != http.StatusBadRequest {
				t.Errorf("Expected 400 response, got %d", rr.Code)
			}
		})
	}
}
