// Package qworker runs a single lazy producer against a pool of concurrent
// consumers over a shared in-memory work queue.
//
// The producer yields tasks one at a time; consumers pull them, perform a
// side effect and report completion back to the queue. A run ends when the
// producer is exhausted and every enqueued task has been completed, or when
// the caller cancels the context. Consumer failures never abort a run: a
// task whose consumer returns an error or panics is logged and counted as
// failed.
//
//	srv, _ := qworker.New[int](producer, consumers, qworker.WithGraceful(true))
//	err := srv.Start(ctx)
//	stats := srv.Stats()
//
// Packages:
//
//   - runtime/orchestrator : startup, drain and interrupt handling
//   - service/worker       : producer and consumer workers
//   - service/messaging    : work queue contract and memory implementation
//   - service/storage      : directory walker and uploader collaborators
package qworker
