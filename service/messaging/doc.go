// Package messaging defines the work queue abstraction shared by the
// producer and consumer workers, together with its sentinel errors.
package messaging
