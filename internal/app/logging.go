package app

import (
	"log/slog"

	"github.com/treykane/pass-tui/internal/logging"
)

// appLog is the package-level structured logger for the app package.
//
// Entries carry the component tag "app". While the TUI runs the logging
// package writes to a file, so nothing logged here reaches the alternate
// screen.
var appLog = logging.New("app")

// setStatusError updates the status line with a user-facing message and
// logs the error with full context.
//
// The status is shown verbatim; err and attrs only reach the log entry.
//
//	m.setStatusError("Remove failed", err, "key", key)
func (m *Model) setStatusError(status string, err error, attrs ...any) {
	m.session.SetStatus(status)
	fields := make([]any, 0, len(attrs)+2)
	fields = append(fields, slog.Any("error", err))
	fields = append(fields, attrs...)
	appLog.Error(status, fields...)
}
