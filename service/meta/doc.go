// Package meta loads YAML documents from any afs-supported location,
// expanding ${env.NAME} expressions before decoding.
package meta
