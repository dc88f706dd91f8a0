// Package server implements the HTTP API for workflow documents
//
// This package provides REST endpoints to list, read, save, update, and
// delete workflows, a liveness probe, and a WebSocket stream of change events
package server
