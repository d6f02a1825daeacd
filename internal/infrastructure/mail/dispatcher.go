package mail

import "context"

// Message is an outbound notification. The sender address is owned by the
// dispatcher configuration.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Dispatcher hands messages to an outbound mail transport.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}
