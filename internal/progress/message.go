// Package progress broadcasts alignment progress events to external
// observers over either a WebSocket or a gRPC stream, the same dual
// transport the control channel in internal/api uses, repurposed here
// for one-way progress notification instead of full session control.
package progress

import "github.com/Encryptabit/AMS-sub006/internal/ports"

// Message is one progress event: which stage is running, how far through
// it the facade is, and a short human-readable note.
type Message struct {
	Stage    string  `json:"stage"`
	Fraction float64 `json:"fraction"`
	Text     string  `json:"text,omitempty"`
}

var _ ports.ProgressNotifier = (*Hub)(nil)
