// Copyright (c) 2026 The Ember developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log provides the structured logger shared by all packages,
// a thin wrapper around log/slog with key-value call shape.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

// Logger writes key-value structured records.
type Logger interface {
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)

	With(ctx ...any) Logger
}

var (
	level = new(slog.LevelVar) // defaults to info
	root  atomic.Pointer[slog.Logger]
)

func init() {
	root.Store(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Init replaces the root handler. Verbosity follows slog levels.
func Init(w io.Writer, lvl slog.Level) {
	level.Set(lvl)
	root.Store(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// InitJSON replaces the root handler with a JSON one, for log collectors.
func InitJSON(w io.Writer, lvl slog.Level) {
	level.Set(lvl)
	root.Store(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})))
}

// SetLevel adjusts the root verbosity without replacing the handler.
func SetLevel(lvl slog.Level) {
	level.Set(lvl)
}

// Level reports the current root verbosity.
func Level() slog.Level {
	return level.Level()
}

// WithContext creates a logger carrying the given key-value context.
func WithContext(ctx ...any) Logger {
	return &logger{extra: ctx}
}

type logger struct {
	extra []any
}

func (l *logger) log(lvl slog.Level, msg string, ctx []any) {
	if len(l.extra) > 0 {
		ctx = append(append([]any{}, l.extra...), ctx...)
	}
	root.Load().Log(context.Background(), lvl, msg, ctx...)
}

func (l *logger) Debug(msg string, ctx ...any) { l.log(slog.LevelDebug, msg, ctx) }
func (l *logger) Info(msg string, ctx ...any)  { l.log(slog.LevelInfo, msg, ctx) }
func (l *logger) Warn(msg string, ctx ...any)  { l.log(slog.LevelWarn, msg, ctx) }
func (l *logger) Error(msg string, ctx ...any) { l.log(slog.LevelError, msg, ctx) }

func (l *logger) With(ctx ...any) Logger {
	return &logger{extra: append(append([]any{}, l.extra...), ctx...)}
}
