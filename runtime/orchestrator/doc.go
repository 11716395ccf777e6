// Package orchestrator wires one producer worker, a work queue and a pool of
// consumer workers into a single run. It owns startup ordering, the normal
// drain-then-stop path and the interrupt path, and it guarantees that every
// worker is joined and the queue released whichever way the run ends.
package orchestrator
