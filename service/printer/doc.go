// Package printer provides a demo consumer that logs each task it receives.
package printer
