package logger

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
	"github.com/natefinch/lumberjack"
)

// Options configures the process-wide logger.
type Options struct {
	Debug   bool   // Log at debug level instead of warn
	NoColor bool   // Disable colored log output
	File    string // Optional log file, rotated by size
}

// Init initializes the default logger and returns a function that releases
// the log file, if any.
func Init(opts Options) func() error {
	writers := []io.Writer{os.Stderr}
	closer := func() error { return nil }

	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		}
		writers = append(writers, file)
		closer = file.Close
	}

	level := log.WarnLevel
	if opts.Debug {
		level = log.DebugLevel
	}

	log.SetDefault(log.NewWithOptions(io.MultiWriter(writers...),
		log.Options{
			ReportCaller:    true,
			ReportTimestamp: opts.File != "", // only worth it once lines outlive the terminal
			TimeFormat:      time.RFC3339,
			Prefix:          "FPWALK",
			Level:           level,
		}))

	log.SetColorProfile(termenv.ANSI256)
	if opts.NoColor || opts.File != "" {
		log.SetColorProfile(termenv.Ascii)
	}

	return closer
}
