package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusAndCode(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", ErrValidation, http.StatusBadRequest, "validation_error"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"not found", ErrNotFound, http.StatusNotFound, "not_found"},
		{"conflict", ErrConflict, http.StatusConflict, "conflict"},
		{"storage", ErrStorage, http.StatusInternalServerError, "storage_error"},
		{"custom", New("teapot", http.StatusTeapot, "short and stout"), http.StatusTeapot, "teapot"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Status(tt.err); got != tt.wantStatus {
				t.Errorf("Status() = %d, want %d", got, tt.wantStatus)
			}
			if got := Code(tt.err); got != tt.wantCode {
				t.Errorf("Code() = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("disk is full")
	err := Wrap(cause, ErrStorage, "")

	if !errors.Is(err, cause) {
		t.Error("wrapped error lost its cause")
	}
	if Status(err) != http.StatusInternalServerError {
		t.Errorf("Status() = %d, want 500", Status(err))
	}
}

func TestPayloadHidesInternalDetail(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.3")
	payload := Payload(Wrap(cause, ErrStorage, ""))

	msg, _ := payload["message"].(string)
	if msg != "Server error" {
		t.Errorf("5xx payload message = %q, want generic", msg)
	}
}

func TestPayloadKeepsClientDetail(t *testing.T) {
	err := WithFields(New("validation_error", http.StatusBadRequest, "email is required"),
		map[string]any{"field": "email"})
	payload := Payload(err)

	if payload["message"] != "email is required" {
		t.Errorf("message = %v", payload["message"])
	}
	if payload["code"] != "validation_error" {
		t.Errorf("code = %v", payload["code"])
	}
	fields, _ := payload["fields"].(map[string]any)
	if fields["field"] != "email" {
		t.Errorf("fields = %v", payload["fields"])
	}
}
