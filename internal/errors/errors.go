package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/lifeplan/internal/logger"
)

// Validation failures. Operations returning one of these made no change to the store.
var (
	ErrEmptyDescription = stderrors.New("task description cannot be empty")
	ErrEmptyContent     = stderrors.New("please write a reflection first")
	ErrInvalidTime      = stderrors.New("invalid time: use HH:MMAM or HH:MMPM (e.g. 09:30AM)")
	ErrInvalidDate      = stderrors.New("invalid date: use YYYY-MM-DD")
	ErrUnknownCategory  = stderrors.New("unknown priority category")
	ErrNoSelection      = stderrors.New("please select a task first")
)

var validationErrors = []error{
	ErrEmptyDescription,
	ErrEmptyContent,
	ErrInvalidTime,
	ErrInvalidDate,
	ErrUnknownCategory,
	ErrNoSelection,
}

// IsValidation reports whether err is a user input problem rather than a storage failure
func IsValidation(err error) bool {
	for _, target := range validationErrors {
		if stderrors.Is(err, target) {
			return true
		}
	}
	return false
}

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

var stderr io.Writer = os.Stderr

// Report logs err under msg and prints it to stderr with the "Error: " prefix
func Report(msg string, err error) {
	if err == nil {
		return
	}
	logger.Error(msg, "error", err)
	fmt.Fprintln(stderr, Format(err))
}
