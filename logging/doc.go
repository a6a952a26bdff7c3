// Package logging provides a minimal logging interface and adapters for MLACS.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the framework, engine and security manager use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - FrameworkLogger with contextual helpers and routing/security/health
//     domain logging methods
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	framework := mlacs.New(func(o *mlacs.Options) { o.Logger = logger })
//
// There is deliberately no package-level shared logger: every component
// receives its logger at construction so tests can capture output without
// global state.
package logging
