// Package progress defines primitives for reporting and aggregating the
// progress of a producer/consumer run. Workers update the tracker carried by
// their context; observers such as the metrics collector or a CLI progress
// printer read snapshots or subscribe to changes.
package progress
