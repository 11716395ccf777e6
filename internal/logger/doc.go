// Package logger builds the process logger from a severity name and an
// output format.
package logger
