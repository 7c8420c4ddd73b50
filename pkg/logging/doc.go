// Package logging provides a thin wrapper around log/slog with
// subsystem-tagged helper functions.
//
// Every internal package logs through the same four helpers:
//
//	logging.Debug("Aggregator", "discovered %d tools from %s", n, provider)
//	logging.Error("Dispatcher", err, "tool call failed for %s", name)
//
// The subsystem tag identifies the originating component so that a
// single text stream stays greppable without per-package logger
// plumbing. Call Init once at startup to set the minimum level and
// output; before Init, messages go to stderr at INFO.
package logging
