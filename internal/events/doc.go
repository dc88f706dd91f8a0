// Package events distributes workflow change notifications inside the process
package events
