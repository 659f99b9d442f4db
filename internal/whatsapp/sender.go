package whatsapp

import (
	"context"
	"log"
)

// Sender defines the interface for sending WhatsApp messages.
type Sender interface {
	Send(ctx context.Context, toPhone, message string) error
}

// LoggingSender logs messages instead of sending them. The actual gateway
// integration lives outside this service; until it is wired in, every
// environment uses this implementation.
type LoggingSender struct{}

// NewLoggingSender creates a LoggingSender.
func NewLoggingSender() Sender {
	return &LoggingSender{}
}

// Send logs the message.
func (s *LoggingSender) Send(ctx context.Context, toPhone, message string) error {
	log.Printf("[whatsapp] To: %s Message: %q (not sent)", toPhone, message)
	return nil
}
