package notify

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/nasrin/go-cake-shop/internal/config"
)

// SMTPNotifier sends mail through a single SMTP endpoint using gomail.
// gomail does not take a context, so Send runs the dial-and-send in a
// goroutine and abandons it when ctx expires; the configured timeout bounds
// the call either way.
type SMTPNotifier struct {
	dialer  *gomail.Dialer
	from    string
	timeout time.Duration
}

func NewSMTPNotifier(cfg config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:    cfg.From,
		timeout: cfg.Timeout,
	}
}

func (n *SMTPNotifier) Send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() {
		done <- n.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send mail to %s: %w", to, ctx.Err())
	}
}
