// Copyright © 2023 Ory Corp
// SPDX-License-Identifier: Apache-2.0

package logrusx

import (
	"context"
	"fmt"
	"net/url"

	"github.com/clinia/solrx/errorx"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Logger struct {
	*logrus.Entry
	leakSensitive bool
	redactionText string
	opts          []Option
	name          string
	version       string
}

func (l *Logger) LeakSensitiveData() bool {
	return l.leakSensitive
}

func (l *Logger) Logrus() *logrus.Logger {
	return l.Entry.Logger
}

func (l *Logger) NewEntry() *Logger {
	ll := *l
	ll.Entry = logrus.NewEntry(l.Logger)
	return &ll
}

func (l *Logger) WithContext(ctx context.Context) *Logger {
	ll := *l
	ll.Entry = l.Entry.WithContext(ctx)
	return &ll
}

// WithURL adds the given URL to the entry. Query strings are redacted unless sensitive values may leak.
func (l *Logger) WithURL(key string, u *url.URL) *Logger {
	if u == nil {
		return l
	}
	if l.leakSensitive {
		return l.WithField(key, u.String())
	}

	uu := url.URL{Scheme: u.Scheme, Host: u.Host, Path: u.Path}
	if u.RawQuery != "" {
		uu.RawQuery = "redacted"
	}
	return l.WithField(key, uu.String())
}

func (l *Logger) Logf(level logrus.Level, format string, args ...interface{}) {
	// Add traces information if available in context
	if l.Context != nil {
		spanCtx := trace.SpanContextFromContext(l.Context)
		if spanCtx.IsValid() {
			if spanCtx.HasTraceID() {
				l = l.WithField("TraceID", spanCtx.TraceID().String())
			}
			if spanCtx.HasSpanID() {
				l = l.WithField("SpanID", spanCtx.SpanID().String())
			}
		}
	}
	if !l.leakSensitive {
		for i, arg := range args {
			switch urlArg := arg.(type) {
			case url.URL:
				urlCopy := url.URL{Scheme: urlArg.Scheme, Host: urlArg.Host, Path: urlArg.Path}
				args[i] = urlCopy
			case *url.URL:
				urlCopy := url.URL{Scheme: urlArg.Scheme, Host: urlArg.Host, Path: urlArg.Path}
				args[i] = &urlCopy
			default:
				continue
			}
		}
	}
	l.Entry.Logf(level, format, args...)
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	l.Logf(logrus.TraceLevel, format, args...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.Logf(logrus.DebugLevel, format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Logf(logrus.InfoLevel, format, args...)
}

func (l *Logger) Printf(format string, args ...interface{}) {
	l.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.Logf(logrus.WarnLevel, format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Logf(logrus.ErrorLevel, format, args...)
}

func (l *Logger) WithFields(f logrus.Fields) *Logger {
	ll := *l
	ll.Entry = l.Entry.WithFields(f)
	return &ll
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	ll := *l
	ll.Entry = l.Entry.WithField(key, value)
	return &ll
}

// WithAttributes adds otel attributes as log fields.
func (l *Logger) WithAttributes(kvs ...attribute.KeyValue) *Logger {
	return l.WithFields(NewLogFields(kvs...))
}

// WithError adds the error to the entry. CliniaErrors keep their type and details.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}

	ctx := map[string]interface{}{"message": err.Error()}
	if cErr, ok := errorx.IsCliniaError(err); ok {
		ctx = cliniaErrorCtx(cErr)
		ctx["type"] = cErr.Type.String()
	}

	return l.WithField("error", ctx)
}

func cliniaErrorCtx(err *errorx.CliniaError) map[string]interface{} {
	ctx := map[string]interface{}{"message": err.Error()}
	if len(err.Details) == 0 {
		return ctx
	}

	details := make([]map[string]interface{}, 0, len(err.Details))
	for i := range err.Details {
		details = append(details, cliniaErrorCtx(&err.Details[i]))
	}
	ctx["details"] = details
	return ctx
}

func (l *Logger) maybeRedact(value interface{}) interface{} {
	if value == nil || fmt.Sprintf("%v", value) == "" {
		return nil
	}
	if !l.leakSensitive {
		return l.redactionText
	}
	return value
}

func (l *Logger) WithSensitiveField(key string, value interface{}) *Logger {
	return l.WithField(key, l.maybeRedact(value))
}
