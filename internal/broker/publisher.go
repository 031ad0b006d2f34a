package broker

import (
	"context"
	"sync"
)

// Message is one domain event. Payload is serialized by the publisher.
type Message struct {
	RoutingKey string
	Payload    interface{}
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// Recorder keeps published messages in memory. Tests use it in place of a
// broker connection.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
	err      error
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// WithError makes subsequent Publish calls fail with err.
func (r *Recorder) WithError(err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
	return r
}

func (r *Recorder) Publish(_ context.Context, msg Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.messages = append(r.messages, msg)
	return nil
}

// Messages returns a copy of everything published so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Last returns the most recent message, if any.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}
