package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level      string
	Env        string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

var (
	mu  sync.RWMutex
	log = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init replaces the package logger. Development gets a console writer, every
// other env writes JSON. A non-empty File adds a rotating file sink.
func Init(opts Options) {
	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if opts.Env == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	if opts.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		})
	}

	l := zerolog.New(out).Level(level).With().Timestamp().Logger()

	mu.Lock()
	log = l
	mu.Unlock()
}

// SetOutput is used by tests to capture log lines.
func SetOutput(w io.Writer) {
	mu.Lock()
	log = zerolog.New(w).With().Timestamp().Logger()
	mu.Unlock()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debug(msg string, args ...any) { write(current().Debug(), msg, args) }
func Info(msg string, args ...any)  { write(current().Info(), msg, args) }
func Warn(msg string, args ...any)  { write(current().Warn(), msg, args) }
func Error(msg string, args ...any) { write(current().Error(), msg, args) }

// write accepts alternating key/value pairs. A non-string key, or a trailing
// value without a key, is logged under a positional "argN" key.
func write(evt *zerolog.Event, msg string, args []any) {
	if evt == nil {
		return
	}
	for i := 0; i < len(args); i++ {
		key, ok := args[i].(string)
		if !ok || i+1 >= len(args) {
			addField(evt, fmt.Sprintf("arg%d", i), args[i])
			continue
		}
		addField(evt, key, args[i+1])
		i++
	}
	evt.Msg(msg)
}

func addField(evt *zerolog.Event, key string, val any) {
	switch v := val.(type) {
	case error:
		evt.AnErr(key, v)
	case fmt.Stringer:
		evt.Str(key, v.String())
	default:
		evt.Interface(key, v)
	}
}
