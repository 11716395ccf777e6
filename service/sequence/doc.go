// Package sequence provides a demo producer emitting a range of integers.
package sequence
