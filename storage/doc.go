// Package storage is the staging area for uploaded audio: a small object
// store abstraction with pluggable backends.
//
//   - storage/local: a directory on the local filesystem (default)
//   - storage/s3: Amazon S3 or an S3-compatible service
//
// Backends register themselves through RegisterFactory; import the backend
// package for its side effect and call New:
//
//	import _ "github.com/kbukum/voicelens/storage/local"
//
//	store, err := storage.New(storage.Config{Provider: "local", BasePath: "/tmp/voicelens"}, log)
package storage
