package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/programhub/internal/app/system/respond"
)

func TestError_WritesJSONBody(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Error(rec, http.StatusConflict, "already_linked", "program is linked")

	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusConflict)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body respond.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != "already_linked" || body.Message != "program is linked" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestInvalid_Is422WithFields(t *testing.T) {
	rec := httptest.NewRecorder()
	respond.Invalid(rec, map[string]string{"name": "is required"})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
	var body respond.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Fields["name"] != "is required" {
		t.Errorf("fields = %v", body.Fields)
	}
}

func TestDecode(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"x"}`, false},
		{"empty", ``, true},
		{"malformed", `{"name":`, true},
		{"unknown field", `{"name":"x","extra":1}`, true},
		{"trailing data", `{"name":"x"}{"name":"y"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := respond.Decode(httptest.NewRecorder(), req, &p)
			if tt.wantErr {
				if !errors.Is(err, respond.ErrBadBody) {
					t.Errorf("expected ErrBadBody, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Name != "x" {
				t.Errorf("Name = %q", p.Name)
			}
		})
	}
}
