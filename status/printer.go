// Copyright 2016 The Gini Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

package status

import (
	"context"
	"log/slog"
)

// DefaultLimit is the default number of messages a Printer passes on.
const DefaultLimit = 20

// Printer passes warnings to a logger.  It is owned by a Control and
// threaded explicitly through grounding and solving.
//
// A nil logger drops everything.  Once limit messages have been passed on,
// further messages are dropped.
type Printer struct {
	log   *slog.Logger
	limit int
	n     int
}

// NewPrinter creates a printer writing to log, passing at most limit
// messages.  limit < 0 means no limit.
func NewPrinter(log *slog.Logger, limit int) *Printer {
	return &Printer{log: log, limit: limit}
}

// Warn passes the warning (c, msg) to the logger.
func (p *Printer) Warn(c Code, msg string) {
	if p == nil || p.log == nil {
		return
	}
	if p.limit >= 0 && p.n >= p.limit {
		return
	}
	p.n++
	p.log.LogAttrs(context.Background(), slog.LevelWarn, msg,
		slog.String("code", c.String()),
		slog.Int("message_code", int(c)))
}

// Count returns the number of messages passed on so far.
func (p *Printer) Count() int {
	if p == nil {
		return 0
	}
	return p.n
}

// Logger returns the underlying logger, never nil.
func (p *Printer) Logger() *slog.Logger {
	if p == nil || p.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.log
}
