// Package storage provides the directory upload collaborators: a Storage
// abstraction over afs and Google Cloud Storage destinations, a Walker
// producer enumerating files under a source location, and an Uploader
// consumer copying each file to a destination with retries.
package storage
