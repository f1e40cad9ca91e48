package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// sensitiveKeys contains attribute keys whose values are always masked,
// compared case-insensitively.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization": true,
	"x-catalog-key": true,
	"x-api-key":     true,

	// Configuration
	"api_key":    true,
	"apikey":     true,
	"api-key":    true,
	"secret":     true,
	"token":      true,
	"password":   true,
	"credential": true,
}

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// RedactHandler wraps an slog.Handler and masks sensitive information
// before records reach it. Two things get masked: attributes whose key
// names sensitive material, and the configured secret values wherever
// they appear inside a string attribute.
//
// A handler wrapper rather than a custom logger keeps the standard
// slog API intact, so any component that accepts *slog.Logger gets
// redaction for free regardless of the underlying output format.
type RedactHandler struct {
	handler slog.Handler

	// secrets are literal values to mask wherever they appear.
	secrets []string
}

// NewRedactHandler creates a RedactHandler wrapping the given handler.
// Empty secrets are ignored. If handler is nil, the returned handler
// wraps slog.Default().Handler().
func NewRedactHandler(handler slog.Handler, secrets ...string) *RedactHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	kept := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return &RedactHandler{handler: handler, secrets: kept}
}

// Enabled reports whether the handler handles records at the given
// level. It delegates to the underlying handler.
func (h *RedactHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it on.
func (h *RedactHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, h.maskString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})
	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added,
// masked before they reach the underlying handler.
func (h *RedactHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &RedactHandler{handler: h.handler.WithAttrs(maskedAttrs), secrets: h.secrets}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactHandler) WithGroup(name string) slog.Handler {
	return &RedactHandler{handler: h.handler.WithGroup(name), secrets: h.secrets}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *RedactHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString {
		if masked := h.maskString(a.Value.String()); masked != a.Value.String() {
			return slog.String(a.Key, masked)
		}
	}

	return a
}

// maskString replaces every configured secret occurring in s.
func (h *RedactHandler) maskString(s string) string {
	for _, secret := range h.secrets {
		s = strings.ReplaceAll(s, secret, MaskValue)
	}
	return s
}

// isSensitiveKey reports whether the attribute key names sensitive
// material, either exactly or as a suffix like "catalog_api_key".
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	if sensitiveKeys[lower] {
		return true
	}
	for _, keyword := range []string{"password", "secret", "token", "api_key", "credential"} {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// NewLogger creates a text-format slog.Logger with redaction.
//
// Parameters:
//   - w: where log output goes (typically os.Stderr)
//   - verbose: if true, log at Debug; otherwise Warn
//   - secrets: literal values to mask, typically the catalog API key
func NewLogger(w io.Writer, verbose bool, secrets ...string) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRedactHandler(textHandler, secrets...))
}

// NewJSONLogger creates a JSON-format slog.Logger with redaction.
// Useful when the agent's logs are collected by another tool.
func NewJSONLogger(w io.Writer, verbose bool, secrets ...string) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(NewRedactHandler(jsonHandler, secrets...))
}
