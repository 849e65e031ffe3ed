package offline

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

const (
	colorReset  = "\x1b[0m"
	colorCyan   = "\x1b[36m"
	colorYellow = "\x1b[33m"
	colorRed    = "\x1b[31m"
)

// Logger receives progress messages from the builder
type Logger interface {
	Info(message string)
	Warn(message string)
	Error(message string)
}

// ConsoleLogger prints timestamped, colour-coded lines
type ConsoleLogger struct {
	out io.Writer
	mu  sync.Mutex
}

// NewConsoleLogger writes to out, or stdout when out is nil
func NewConsoleLogger(out io.Writer) *ConsoleLogger {
	if out == nil {
		out = os.Stdout
	}
	return &ConsoleLogger{out: out}
}

func (l *ConsoleLogger) Info(message string)  { l.log(message, colorCyan) }
func (l *ConsoleLogger) Warn(message string)  { l.log(message, colorYellow) }
func (l *ConsoleLogger) Error(message string) { l.log(message, colorRed) }

func (l *ConsoleLogger) log(message, color string) {
	timestamp := time.Now().Format("15:04:05")
	if color == "" {
		color = colorReset
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "%s[%s] %s%s\n", color, timestamp, message, colorReset)
}

// NopLogger discards every message
type NopLogger struct{}

func (NopLogger) Info(string)  {}
func (NopLogger) Warn(string)  {}
func (NopLogger) Error(string) {}
