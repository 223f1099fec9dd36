// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package logrusx

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type (
	options struct {
		l             *logrus.Logger
		level         *logrus.Level
		formatter     logrus.Formatter
		format        string
		out           io.Writer
		leakSensitive bool
		redactionText string
		hooks         []logrus.Hook
	}
	Option func(*options)
)

const defaultRedactionText = `Value is sensitive and has been redacted. To see the value set config key "log.leak_sensitive_values = true" or environment variable "LOG_LEAK_SENSITIVE_VALUES=true".`

func newOptions(opts []Option) *options {
	o := new(options)
	for _, f := range opts {
		f(o)
	}
	return o
}

// ForceLevel sets the level, ignoring the LOG_LEVEL environment variable.
func ForceLevel(level logrus.Level) Option {
	return func(o *options) {
		o.level = &level
	}
}

// ForceFormat sets the format ("json" or "text"), ignoring the LOG_FORMAT environment variable.
func ForceFormat(format string) Option {
	return func(o *options) {
		o.format = format
	}
}

func WithFormatter(formatter logrus.Formatter) Option {
	return func(o *options) {
		o.formatter = formatter
	}
}

func WithOutput(out io.Writer) Option {
	return func(o *options) {
		o.out = out
	}
}

func WithHook(hook logrus.Hook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hook)
	}
}

func UseLogger(l *logrus.Logger) Option {
	return func(o *options) {
		o.l = l
	}
}

func LeakSensitive() Option {
	return func(o *options) {
		o.leakSensitive = true
	}
}

func RedactionText(text string) Option {
	return func(o *options) {
		o.redactionText = text
	}
}

// ParseLevel parses a level name, falling back to info for empty or unknown values.
func ParseLevel(level string) logrus.Level {
	l, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return logrus.InfoLevel
	}
	return l
}

func setLevel(l *logrus.Logger, o *options) {
	if o.level != nil {
		l.Level = *o.level
		return
	}
	l.Level = ParseLevel(os.Getenv("LOG_LEVEL"))
}

func setFormatter(l *logrus.Logger, o *options) {
	if o.formatter != nil {
		l.Formatter = o.formatter
		return
	}

	format := o.format
	if format == "" {
		format = os.Getenv("LOG_FORMAT")
	}

	switch format {
	case "json":
		l.Formatter = &logrus.JSONFormatter{}
	default:
		l.Formatter = &logrus.TextFormatter{
			DisableQuote:     true,
			DisableTimestamp: false,
			FullTimestamp:    true,
		}
	}
}

func newLogger(parent *logrus.Logger, o *options) *logrus.Logger {
	l := parent
	if l == nil {
		l = logrus.New()
	}

	if o.out != nil {
		l.Out = o.out
	}

	for _, hook := range o.hooks {
		l.AddHook(hook)
	}

	setLevel(l, o)
	setFormatter(l, o)

	l.ReportCaller = l.Level == logrus.TraceLevel
	return l
}

// New creates a new logger with all the important fields set.
func New(name string, version string, opts ...Option) *Logger {
	o := newOptions(opts)

	redactionText := o.redactionText
	if redactionText == "" {
		redactionText = defaultRedactionText
	}

	return &Logger{
		opts:          opts,
		name:          name,
		version:       version,
		leakSensitive: o.leakSensitive || os.Getenv("LOG_LEAK_SENSITIVE_VALUES") == "true",
		redactionText: redactionText,
		Entry: newLogger(o.l, o).WithFields(logrus.Fields{
			"audience":        "application",
			"service_name":    name,
			"service_version": version,
		}),
	}
}

// NewNoop returns a logger that discards everything. Useful in tests and as a default.
func NewNoop() *Logger {
	l := logrus.New()
	l.Out = io.Discard
	return New("", "", UseLogger(l), ForceLevel(logrus.PanicLevel))
}
