// Package store persists workflow documents as JSON objects in a blob bucket
//
// Each document lives under a key derived from its sanitized name. The
// default bucket is a directory on the local filesystem, but any
// gocloud.dev/blob URL may be used
package store
