// Package queue implements the thread-safe priority message buffer used on
// the MLACS send path. Higher priority messages drain first; within a
// priority tier ordering is first-in-first-out. The queue enforces no
// capacity limit of its own; overflow policy is a framework concern checked
// by the orchestrator's health loop.
package queue
