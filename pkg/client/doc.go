// Package client provides storage backends for workflow documents as seen
// from the editor: a Remote backend speaking to the workflow server over
// HTTP, a Local backend that keeps documents and editor preferences in a
// local bucket, and an Adapter that routes each call to the backend
// selected when the call starts.
package client
