package errors

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/models"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "simple error",
			err:      errors.New("something went wrong"),
			expected: "Error: something went wrong",
		},
		{
			name:     "api error detail",
			err:      &api.APIError{Status: 400, Detail: "Username already registered"},
			expected: "Error: Username already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.err)
			if result != tt.expected {
				t.Errorf("Format(%v) = %q, want %q", tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatf(t *testing.T) {
	result := Formatf("task %d is out of range", 7)
	if result != "Error: task 7 is out of range" {
		t.Errorf("Formatf() = %q, want %q", result, "Error: task 7 is out of range")
	}
}

func TestUserMessage(t *testing.T) {
	transport := &api.TransportError{Method: "GET", URL: "http://localhost:8000/tasks/load", Err: errors.New("connection refused")}

	tests := []struct {
		name     string
		err      error
		fallback string
		expected string
	}{
		{"nil", nil, "fallback", ""},
		{"session expired", fmt.Errorf("load: %w", api.ErrSessionExpired), "fallback", constants.MsgSessionExpired},
		{"transport", transport, constants.MsgGenerateFailed, constants.MsgConnectFailed},
		{"wrapped transport", fmt.Errorf("save: %w", transport), "", constants.MsgConnectFailed},
		{"server detail", &api.APIError{Status: 400, Detail: "Username already registered"}, "fallback", "Username already registered"},
		{"server without detail", &api.APIError{Status: 500}, constants.MsgGenerateFailed, constants.MsgGenerateFailed},
		{"server without detail or fallback", &api.APIError{Status: 500}, "", constants.MsgGenericError},
		{"schema", &models.SchemaError{Errors: []string{"summary is required"}}, constants.MsgLoadFailed, constants.MsgLoadFailed},
		{"other with fallback", errors.New("boom"), "fallback", "fallback"},
		{"other without fallback", errors.New("boom"), "", "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err, tt.fallback); got != tt.expected {
				t.Errorf("UserMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestIsSessionExpired(t *testing.T) {
	if !IsSessionExpired(fmt.Errorf("wrapped: %w", api.ErrSessionExpired)) {
		t.Error("expected wrapped ErrSessionExpired to be detected")
	}
	if IsSessionExpired(&api.APIError{Status: 401, Detail: "Incorrect username or password"}) {
		t.Error("expected a login rejection not to count as session expiry")
	}
}

// TestFatal tests the Fatal function using exec helper process
func TestFatal(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL") == "1" {
		Fatal(errors.New("test error"))
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatal() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: test error") {
			t.Errorf("Fatal() stderr = %q, want to contain %q", stderr.String(), "Error: test error")
		}
	} else {
		t.Errorf("Fatal() did not exit with error: %v", err)
	}
}

func TestFatal_NilError(t *testing.T) {
	if os.Getenv("GO_TEST_FATAL_NIL") == "1" {
		Fatal(nil)
		os.Exit(0)
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatal_NilError$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATAL_NIL=1")

	if err := cmd.Run(); err != nil {
		t.Errorf("Fatal(nil) should not exit, but got error: %v", err)
	}
}

func TestFatalf(t *testing.T) {
	if os.Getenv("GO_TEST_FATALF") == "1" {
		Fatalf("cannot reach %s", "http://localhost:8000")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestFatalf$")
	cmd.Env = append(os.Environ(), "GO_TEST_FATALF=1")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if e, ok := err.(*exec.ExitError); ok && !e.Success() {
		if e.ExitCode() != 1 {
			t.Errorf("Fatalf() exit code = %d, want 1", e.ExitCode())
		}
		if !strings.Contains(stderr.String(), "Error: cannot reach http://localhost:8000") {
			t.Errorf("Fatalf() stderr = %q", stderr.String())
		}
	} else {
		t.Errorf("Fatalf() did not exit with error: %v", err)
	}
}
