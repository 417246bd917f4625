package errors

import (
	goerrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/taskforge/internal/api"
	"github.com/julianstephens/taskforge/internal/constants"
	"github.com/julianstephens/taskforge/internal/logger"
	"github.com/julianstephens/taskforge/internal/models"
)

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}

// UserMessage returns the text a user should see for err.
//
// Server-reported details are shown verbatim and transport failures get a generic connection
// message. Anything else falls back to fallback, or to the error text when fallback is empty.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *api.APIError
	var schemaErr *models.SchemaError
	switch {
	case goerrors.Is(err, api.ErrSessionExpired):
		return constants.MsgSessionExpired
	case api.IsTransport(err):
		return constants.MsgConnectFailed
	case goerrors.As(err, &apiErr):
		if apiErr.Detail != "" {
			return apiErr.Detail
		}
	case goerrors.As(err, &schemaErr):
		logger.Warn("Server returned an unexpected payload", "error", err)
	default:
		if fallback == "" {
			return err.Error()
		}
	}

	if fallback == "" {
		return constants.MsgGenericError
	}
	return fallback
}

// IsSessionExpired reports whether err means the user was sent back to the login screen
func IsSessionExpired(err error) bool {
	return goerrors.Is(err, api.ErrSessionExpired)
}
