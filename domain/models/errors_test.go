package models

import (
	"errors"
	"fmt"
	"testing"
)

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil",
			err:  nil,
			want: "",
		},
		{
			name: "transport error hides status detail",
			err:  &TransportError{Resource: "categories", Op: "delete", Message: "Failed to fetch categories", StatusCode: 404},
			want: "Failed to fetch categories",
		},
		{
			name: "wrapped transport error",
			err:  fmt.Errorf("delete: %w", &TransportError{Message: "Failed to delete an image", StatusCode: 500}),
			want: "Failed to delete an image",
		},
		{
			name: "validation error with message",
			err:  &ValidationError{Resource: "image", Index: -1, Message: "Failed to get an image"},
			want: "Failed to get an image",
		},
		{
			name: "user input",
			err:  ErrMissingFile,
			want: "Please select an image",
		},
		{
			name: "plain error",
			err:  errors.New("boom"),
			want: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reason(tt.err); got != tt.want {
				t.Errorf("Reason() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorTaxonomy(t *testing.T) {
	transport := &TransportError{Message: "m", Err: errors.New("connection refused")}
	if !errors.Is(transport, ErrTransport) || errors.Is(transport, ErrValidation) {
		t.Errorf("TransportError matched the wrong sentinel: %v", transport)
	}

	validation := &ValidationError{Resource: "images", Index: 2, Field: "name"}
	if !errors.Is(validation, ErrValidation) || errors.Is(validation, ErrTransport) {
		t.Errorf("ValidationError matched the wrong sentinel: %v", validation)
	}
	if got, want := validation.Error(), "invalid images[2].name"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if !errors.Is(ErrMissingFile, ErrUserInput) {
		t.Error("ErrMissingFile should match ErrUserInput")
	}
}
