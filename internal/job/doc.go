// Package job runs a single Job on a fixed interval. At most one instance
// of the job runs at a time: a tick that arrives while the previous run is
// still going is skipped, and a tick delivered later than the misfire grace
// is dropped. Missed runs are never queued or retried.
package job
