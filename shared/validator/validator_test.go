package validator_test

import (
	"net/http"
	"strings"
	"taskly/shared/failure"
	"taskly/shared/validator"
	"testing"
)

type credentials struct {
	Username string `json:"username" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

type task struct {
	Task string `json:"task" validate:"required,notblank"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *credentials
		expectError string
	}{
		{
			name: "valid struct",
			data: &credentials{Username: "alice", Password: "secret1"},
		},
		{
			name:        "missing username",
			data:        &credentials{Password: "secret1"},
			expectError: "username is required",
		},
		{
			name:        "username too short",
			data:        &credentials{Username: "al", Password: "secret1"},
			expectError: "username must be at least 3 characters",
		},
		{
			name:        "password too short",
			data:        &credentials{Username: "alice", Password: "12345"},
			expectError: "password must be at least 6 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError == "" {
				if err != nil {
					t.Errorf("expected no validation error, got: %v", err)
				}

				return
			}

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			if err.Error() != tt.expectError {
				t.Errorf("expected %q, got %q", tt.expectError, err.Error())
			}

			if failure.GetCode(err) != http.StatusBadRequest {
				t.Errorf("expected status %d, got %d", http.StatusBadRequest, failure.GetCode(err))
			}
		})
	}
}

func TestValidateStruct_NotBlank(t *testing.T) {
	tests := []struct {
		name        string
		data        *task
		expectError string
	}{
		{
			name: "task with surrounding spaces",
			data: &task{Task: " buy milk "},
		},
		{
			name:        "empty task",
			data:        &task{},
			expectError: "task is required",
		},
		{
			name:        "whitespace task",
			data:        &task{Task: "   "},
			expectError: "task must not be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError == "" {
				if err != nil {
					t.Errorf("expected no validation error, got: %v", err)
				}

				return
			}

			if err == nil {
				t.Fatal("expected validation error, got nil")
			}

			if err.Error() != tt.expectError {
				t.Errorf("expected %q, got %q", tt.expectError, err.Error())
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{
			name:     "valid JSON",
			jsonBody: `{"task":"buy milk"}`,
		},
		{
			name:        "blank task",
			jsonBody:    `{"task":"  "}`,
			expectError: true,
		},
		{
			name:        "malformed JSON",
			jsonBody:    `{"task":}`,
			expectError: true,
		},
		{
			name:        "wrong type",
			jsonBody:    `{"task":1}`,
			expectError: true,
		},
		{
			name:        "empty JSON",
			jsonBody:    `{}`,
			expectError: true,
		},
		{
			name:        "empty body",
			jsonBody:    ``,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data task
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}
