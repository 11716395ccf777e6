// Package types defines the two capability contracts a collaborator
// implements to plug work into the engine: a Producer emitting tasks and a
// Consumer applying a side effect per task.
package types
