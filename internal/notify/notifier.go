// Package notify delivers order emails to customers. The store layer treats
// delivery failure as fatal to the surrounding transaction, so implementations
// must return an error rather than swallow it.
package notify

import "context"

type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Subject and body sent on every order update. The subject is fixed no matter
// which payment_status was submitted; tests pin this down.
const (
	PaymentSubject = "Payment Successful"
	PaymentBody    = "Your order has been placed successfully!"
)
