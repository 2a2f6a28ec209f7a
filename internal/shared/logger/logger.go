package logger

// Logger is the logging port used by the metrics engine and its producers
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Nop discards everything.
type Nop struct{}

func (Nop) Debug(msg string, args ...any) {}
func (Nop) Info(msg string, args ...any)  {}
func (Nop) Warn(msg string, args ...any)  {}
func (Nop) Error(msg string, args ...any) {}
