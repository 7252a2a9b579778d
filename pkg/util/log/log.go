// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

// Package log implements leveled, context-aware logging. Every call takes a
// context.Context; tags attached to the context with logtags.AddTag are
// printed in front of the message. Arguments are redactable: unless a value
// is marked safe (redact.Safe or the redact.SafeValue interface), it is
// enclosed in redaction markers when redactable output is enabled.
package log

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Severity is the severity of a log entry.
type Severity int32

// Supported severities.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

var severityChars = [...]byte{
	SeverityInfo:    'I',
	SeverityWarning: 'W',
	SeverityError:   'E',
}

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	}
	return "UNKNOWN"
}

type loggerT struct {
	verbosity  int32
	redactable int32

	mu struct {
		sync.Mutex
		out io.Writer
		now func() time.Time
	}
}

var logging = newLogger()

func newLogger() *loggerT {
	l := &loggerT{}
	l.mu.out = os.Stderr
	l.mu.now = time.Now
	return l
}

// SetOutput redirects all log entries to w. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	logging.mu.Lock()
	defer logging.mu.Unlock()
	prev := logging.mu.out
	logging.mu.out = w
	return prev
}

// SetVerbosity sets the level up to which V returns true and VEventf logs.
// It returns the previous level.
func SetVerbosity(level int32) int32 {
	return atomic.SwapInt32(&logging.verbosity, level)
}

// SetRedactable controls whether redaction markers are kept in the output.
// When false, markers are stripped and entries are plain text.
func SetRedactable(redactable bool) {
	var v int32
	if redactable {
		v = 1
	}
	atomic.StoreInt32(&logging.redactable, v)
}

// V returns true if the logging verbosity is at least level.
func V(level int32) bool {
	return atomic.LoadInt32(&logging.verbosity) >= level
}

// Infof logs to the INFO severity.
func Infof(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityInfo, format, args)
}

// Warningf logs to the WARNING severity.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityWarning, format, args)
}

// Errorf logs to the ERROR severity.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	logDepth(ctx, 1, SeverityError, format, args)
}

// VEventf logs an INFO entry if the verbosity is at least level.
func VEventf(ctx context.Context, level int32, format string, args ...interface{}) {
	if V(level) {
		logDepth(ctx, 1, SeverityInfo, format, args)
	}
}

func logDepth(ctx context.Context, depth int, sev Severity, format string, args []interface{}) {
	redactable := atomic.LoadInt32(&logging.redactable) == 1
	logging.mu.Lock()
	defer logging.mu.Unlock()
	entry := makeEntry(ctx, depth+1, sev, logging.mu.now(), redactable, format, args)
	_, _ = logging.mu.out.Write(entry)
}
