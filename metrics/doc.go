// Package metrics exposes run counters as Prometheus collectors. Values are
// read from a progress snapshot on every scrape, so no worker ever touches a
// Prometheus type directly.
package metrics
