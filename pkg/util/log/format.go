// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package log

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/cockroachdb/logtags"
	"github.com/cockroachdb/redact"
)

// makeEntry renders one log line:
//
//	I261018 14:03:07.123456 optimizer.go:120 [opt=3] message
//
// The line always ends with a newline.
func makeEntry(
	ctx context.Context,
	depth int,
	sev Severity,
	now time.Time,
	redactable bool,
	format string,
	args []interface{},
) []byte {
	var buf bytes.Buffer
	buf.WriteByte(severityChars[sev])
	buf.WriteString(now.UTC().Format("060102 15:04:05.000000"))
	buf.WriteByte(' ')

	file, line := "???", 0
	if _, f, l, ok := runtime.Caller(depth + 1); ok {
		file, line = filepath.Base(f), l
	}
	fmt.Fprintf(&buf, "%s:%d ", file, line)

	formatTags(ctx, &buf)

	msg := redact.Sprintf(format, args...)
	if redactable {
		buf.WriteString(string(msg))
	} else {
		buf.WriteString(msg.StripMarkers())
	}
	if b := buf.Bytes(); b[len(b)-1] != '\n' {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// formatTags writes the context tags as "[k=v,k2] ". Nothing is written if the
// context carries no tags.
func formatTags(ctx context.Context, buf *bytes.Buffer) {
	tags := logtags.FromContext(ctx)
	if tags == nil || len(tags.Get()) == 0 {
		return
	}
	buf.WriteByte('[')
	buf.WriteString(tags.String())
	buf.WriteString("] ")
}

// FormatWithContextTags formats the message and prepends the context tags.
// Redaction markers are not inserted.
func FormatWithContextTags(ctx context.Context, format string, args ...interface{}) string {
	var buf bytes.Buffer
	formatTags(ctx, &buf)
	buf.WriteString(redact.Sprintf(format, args...).StripMarkers())
	return buf.String()
}
