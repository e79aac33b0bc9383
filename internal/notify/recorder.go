package notify

import (
	"context"
	"sync"
)

// Recorder is a Notifier for tests. It records every delivery and can be told
// to fail, which lets tests assert that the order update rolls back when the
// email cannot be sent.
type Recorder struct {
	mu    sync.Mutex
	sends []RecordedSend
	Err   error
}

type RecordedSend struct {
	To      string
	Subject string
	Body    string
}

func (r *Recorder) Send(_ context.Context, to, subject, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.Err != nil {
		return r.Err
	}
	r.sends = append(r.sends, RecordedSend{To: to, Subject: subject, Body: body})
	return nil
}

func (r *Recorder) Sends() []RecordedSend {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]RecordedSend, len(r.sends))
	copy(out, r.sends)
	return out
}
