// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"io"
	"strings"
	"sync"
)

// tShim is the part of testing.TB used by TestLogScope.
type tShim interface {
	Helper()
	Logf(format string, args ...interface{})
	Failed() bool
}

// TestLogScope captures the log output of a test. If the test fails, the
// captured entries are printed with the test output when the scope is
// closed. Use it as:
//
//	defer log.Scope(t).Close(t)
type TestLogScope struct {
	prevOut       io.Writer
	prevVerbosity int32

	mu struct {
		sync.Mutex
		buf bytes.Buffer
	}
}

// Scope starts capturing the log output.
func Scope(t tShim) *TestLogScope {
	t.Helper()
	s := &TestLogScope{}
	s.prevOut = SetOutput(s)
	s.prevVerbosity = SetVerbosity(2)
	return s
}

// Write implements io.Writer.
func (s *TestLogScope) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.buf.Write(p)
}

// String returns the entries captured so far.
func (s *TestLogScope) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mu.buf.String()
}

// Close restores the previous log destination.
func (s *TestLogScope) Close(t tShim) {
	t.Helper()
	SetOutput(s.prevOut)
	SetVerbosity(s.prevVerbosity)
	if t.Failed() {
		for _, line := range strings.Split(strings.TrimSuffix(s.String(), "\n"), "\n") {
			t.Logf("%s", line)
		}
	}
}
