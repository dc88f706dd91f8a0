// Package api defines the shared data types for the workflow document service
//
// This package contains the workflow document shape, request and response
// envelopes for the HTTP API, change events, and the name sanitization rule
// that maps display names to storage keys
package api
