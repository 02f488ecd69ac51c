package lumina

import "log/slog"

var pkgLogger *slog.Logger

// SetLogger replaces the logger used for diagnostics. Passing nil restores
// slog.Default().
func SetLogger(l *slog.Logger) {
	pkgLogger = l
}

func logger() *slog.Logger {
	if pkgLogger != nil {
		return pkgLogger
	}
	return slog.Default()
}
