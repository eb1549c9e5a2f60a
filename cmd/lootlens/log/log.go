package log

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	mu         sync.Mutex
	logFile    *os.File
	fileWriter *bufio.Writer
)

// NewLogger builds a text logger writing to stdout and, when logDir is set, to
// a timestamped file in it. Debug enables debug level records.
func NewLogger(debug bool, logDir, name string) (*slog.Logger, error) {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	if logDir != "" {
		if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("error creating log directory: %w", err)
		}

		fileName := "lootlens-" + time.Now().Format("2006-01-02-15-04-05") + ".txt"
		if name != "" {
			fileName = "lootlens-" + name + "-" + time.Now().Format("2006-01-02-15-04-05") + ".txt"
		}

		f, err := os.OpenFile(filepath.Join(logDir, fileName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("error opening log file: %w", err)
		}
		logFile = f
		fileWriter = bufio.NewWriterSize(f, 4096)
		out = io.MultiWriter(os.Stdout, &lockedWriter{w: fileWriter})
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	})

	return slog.New(handler), nil
}

// FlushLog writes any buffered records to the log file.
func FlushLog() {
	mu.Lock()
	defer mu.Unlock()
	if fileWriter != nil {
		_ = fileWriter.Flush()
	}
}

func FlushAndClose() error {
	mu.Lock()
	defer mu.Unlock()
	if fileWriter != nil {
		_ = fileWriter.Flush()
		fileWriter = nil
	}
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

type lockedWriter struct {
	w io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	mu.Lock()
	defer mu.Unlock()
	return l.w.Write(p)
}
