// Package worker hosts the isolated execution contexts that drive a single
// Producer or Consumer implementation against the shared work queue.
//
// A worker only observes its own stop flag. The context passed to Start
// contributes values (progress tracker, tracing span) but its cancellation
// is not inherited, so an interrupt delivered to the caller never aborts a
// worker mid-task. Polling the queue with a short timeout lets the worker
// notice a stop request promptly.
package worker
