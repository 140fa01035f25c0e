// Streamkeep - Self-Hosted Streaming Media Catalog API
// Copyright 2026 Streamkeep Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/streamkeep/streamkeep

// Package audit provides the append-only audit trail. Records are
// write-only: the system never reads them back. Each record is one JSON
// line in the audit log file.
package audit

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/streamkeep/streamkeep/internal/logging"
	"github.com/streamkeep/streamkeep/internal/metrics"
)

// Action categorizes audit records.
type Action string

const (
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionMerge  Action = "merge"
	ActionLogin  Action = "login"
)

// TargetKind names the record kind an action touched.
type TargetKind string

const (
	TargetMovie    TargetKind = "movie"
	TargetSeries   TargetKind = "series"
	TargetCategory TargetKind = "category"
	TargetUser     TargetKind = "user"
	TargetHistory  TargetKind = "history"
	TargetSession  TargetKind = "session"
)

// Record is one audit trail line.
type Record struct {
	Timestamp time.Time  `json:"timestamp"`
	Actor     string     `json:"actor"`
	Action    Action     `json:"action"`
	Target    TargetKind `json:"target"`
	Details   string     `json:"details,omitempty"`
}

// Logger appends records to the audit log file through a buffered async
// writer, so request handling never blocks on audit I/O. A full buffer
// drops the record and counts the drop rather than stalling the caller.
type Logger struct {
	path     string
	enabled  bool
	recordCh chan Record
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewLogger creates the audit logger writing to path. A disabled logger
// accepts records and discards them.
func NewLogger(path string, enabled bool, bufferSize int) *Logger {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	l := &Logger{
		path:     path,
		enabled:  enabled,
		recordCh: make(chan Record, bufferSize),
		stopCh:   make(chan struct{}),
	}
	l.wg.Add(1)
	go l.asyncWriter()
	return l
}

// Log queues one record. The timestamp is stamped here if absent.
func (l *Logger) Log(rec Record) {
	if !l.enabled {
		return
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	select {
	case l.recordCh <- rec:
	default:
		metrics.AuditEventsDropped.Inc()
	}
}

// Close drains pending records and stops the writer.
func (l *Logger) Close() {
	close(l.stopCh)
	l.wg.Wait()
}

// asyncWriter appends queued records until stopped, then drains.
func (l *Logger) asyncWriter() {
	defer l.wg.Done()

	for {
		select {
		case <-l.stopCh:
			for {
				select {
				case rec := <-l.recordCh:
					l.append(rec)
				default:
					return
				}
			}
		case rec := <-l.recordCh:
			l.append(rec)
		}
	}
}

// append writes one JSON line. A single O_APPEND write keeps lines intact
// across concurrent processes sharing the file.
func (l *Logger) append(rec Record) {
	line, err := json.Marshal(rec)
	if err != nil {
		logging.Err(err).Msg("failed to marshal audit record")
		return
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		logging.Err(err).Str("path", l.path).Msg("failed to create audit log directory")
		return
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logging.Err(err).Str("path", l.path).Msg("failed to open audit log")
		return
	}
	defer f.Close()

	if _, err := f.Write(line); err != nil {
		logging.Err(err).Str("path", l.path).Msg("failed to append audit record")
	}
}
