// Package tasks implements sync orchestration: driving a full sync cycle per
// monitored playlist (fetch, reconcile, persist) and the recurring schedule
// that triggers bulk cycles.
//
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
