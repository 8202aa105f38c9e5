package trezor

// Logger is the injectable logging sink used by Client. It mirrors the
// level-prefixed printf-style loggers common across the USB-device
// libraries this package descends from; nil is valid and discards
// everything.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

// nopLogger discards everything; it is the default when no Logger is
// supplied via WithLogger.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
