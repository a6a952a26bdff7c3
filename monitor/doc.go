// Package monitor implements the MLACS performance monitor: a periodic
// sampler that folds message throughput, routing latency, error rate and
// process-level CPU/memory usage into immutable metrics snapshots.
//
// Counters are fed by the framework's send path (RecordMessageProcessed,
// RecordLatency, RecordError) over sliding windows: 60 seconds for
// throughput, 5 minutes for the error rate. Each sampling tick appends a
// snapshot to a bounded history (oldest evicted) and pushes copies to
// subscribers; reads never expose shared mutable state.
package monitor
