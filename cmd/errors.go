package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/manifoldco/promptui"
	"github.com/spf13/viper"

	"github.com/josephgoksu/TaskTree/internal/app"
	"github.com/josephgoksu/TaskTree/internal/config"
	"github.com/josephgoksu/TaskTree/internal/task"
	"github.com/josephgoksu/TaskTree/store"
)

// errNotInteractive is returned when a command needs a prompt but stdin is not a terminal.
var errNotInteractive = errors.New("not an interactive terminal")

// HandleFatalError handles unrecoverable errors that should terminate the application.
func HandleFatalError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	os.Exit(1)
}

// PrintError prints an error message without exiting, allowing for recovery.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		// In verbose mode, print the detailed, underlying technical error.
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
	} else {
		fmt.Fprintln(os.Stderr, userMsg)
	}
}

// userMessage turns an error into the short message shown without --verbose.
func userMessage(err error) string {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, task.ErrCycle):
		return "That dependency would create a cycle: " + err.Error()
	case errors.Is(err, task.ErrTaskNotFound):
		return "Task not found: " + err.Error()
	case errors.Is(err, store.ErrChecksumMismatch):
		return "The snapshot file was modified outside TaskTree and failed its checksum. Fix or remove it and retry."
	case errors.Is(err, store.ErrUnsupportedFormat):
		return "Unsupported data format. Use json, yaml or toml."
	case errors.Is(err, config.ErrConfigNotFound):
		return err.Error()
	case errors.As(err, &verrs):
		return "Invalid configuration: " + err.Error()
	case errors.Is(err, app.ErrNoSnapshotStore):
		return "No snapshot store configured."
	case errors.Is(err, errNotInteractive):
		return "This command needs an interactive terminal or explicit arguments."
	case errors.Is(err, promptui.ErrInterrupt):
		return "Cancelled."
	}
	return "Error: " + err.Error()
}

// errorKind is the coarse error class reported in telemetry.
func errorKind(err error) string {
	switch {
	case errors.Is(err, task.ErrCycle):
		return "cycle"
	case errors.Is(err, task.ErrTaskNotFound):
		return "not_found"
	case errors.Is(err, store.ErrChecksumMismatch):
		return "checksum"
	case errors.Is(err, errNotInteractive):
		return "not_interactive"
	}
	return "other"
}
