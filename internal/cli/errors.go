package cli

import (
	"fmt"
	"io"
	"strings"

	apperrors "growtheory/internal/errors"
)

const retryHint = "Please try again."

// FormatError turns a command error into the message shown to the user.
// Connectivity failures, server rejections and bad responses are worded
// differently; input mistakes are shown as-is.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	switch apperrors.KindOf(err) {
	case apperrors.KindNetwork:
		var netErr *apperrors.NetworkError
		apperrors.As(err, &netErr)
		return fmt.Sprintf("Cannot reach the analysis service. Check your connection and that the service is running. %s\n(%v)", retryHint, netErr.Err)
	case apperrors.KindServer:
		var srvErr *apperrors.ServerError
		apperrors.As(err, &srvErr)
		return withHint(srvErr.Message)
	case apperrors.KindValidation:
		var valErr *apperrors.ValidationError
		apperrors.As(err, &valErr)
		if apperrors.Is(err, apperrors.ErrInvalidPayload) {
			return fmt.Sprintf("The analysis service returned an incomplete response (%s). %s", valErr.Field, retryHint)
		}
		return valErr.Error()
	}

	switch {
	case apperrors.Is(err, apperrors.ErrBusy):
		return "An analysis is already running. Wait for it to finish."
	case apperrors.Is(err, apperrors.ErrNoReport):
		return "No report in this session. Run 'growtheory analyze <company>' first."
	default:
		return err.Error()
	}
}

// withHint closes msg as a sentence and appends the retry hint.
func withHint(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return retryHint
	}
	if !strings.HasSuffix(msg, ".") && !strings.HasSuffix(msg, "!") && !strings.HasSuffix(msg, "?") {
		msg += "."
	}
	return msg + " " + retryHint
}

// PrintError writes err to w in the user-facing form.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error: "+FormatError(err))
}
