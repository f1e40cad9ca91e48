// Package log provides the agent's logging, built on the standard
// slog package with automatic redaction of the catalog API key.
//
// The agent logs request details at debug level, including headers and
// config values, and those records must never leak the API key into a
// terminal scrollback or a pasted bug report. The RedactHandler wraps
// any slog.Handler and masks both sensitive attribute keys (api_key,
// authorization, and friends) and the literal key value wherever it
// appears in a string attribute.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, verbose, cfg.APIKey)
//	logger.Debug("catalog request",
//	    "x-catalog-key", cfg.APIKey, // masked by key name
//	    "url", lookupURL,            // passed through
//	)
package log
