// Package security implements the MLACS security manager: leveled validation
// of agents and messages, authorized/blocked id sets and a bounded append-only
// audit event log.
//
// Four increasing strictness levels are supported:
//
//   - Minimal: authorization checks only, no content inspection
//   - Standard: minimal + rejection of payloads containing blocklisted substrings
//   - Enhanced: standard + oversized payloads flagged as suspicious (not rejected)
//   - Maximum: enhanced + a reserved signature verification hook
//
// Every rejection is both returned to the caller as a typed error and
// independently recorded in the event log. The two records are intentionally
// redundant: callers must not use the log for control flow, and the log never
// suppresses the raised error.
package security
