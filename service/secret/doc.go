// Package secret reveals and stores encrypted credentials with viant/scy.
package secret
