package mail

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/instasoft/devatshop/internal/logging"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeSender) Send(msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func TestQueue_DeliversEnqueuedMessages(t *testing.T) {
	sender := &fakeSender{}
	q := NewQueue(sender, logging.New("error"), 8)
	q.Start(context.Background())

	q.Enqueue(Message{To: "a@example.com", Subject: "one"})
	q.Enqueue(Message{To: "b@example.com", Subject: "two"})
	q.Close()

	require.Equal(t, 2, sender.count())
}

func TestQueue_DeliveryFailureIsSwallowed(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	q := NewQueue(sender, logging.New("error"), 8)
	q.Start(context.Background())

	q.Enqueue(Message{To: "a@example.com", Subject: "doomed"})
	q.Close()

	require.Equal(t, 0, sender.count())
}

func TestQueue_DrainsAfterCancel(t *testing.T) {
	sender := &fakeSender{}
	q := NewQueue(sender, logging.New("error"), 8)

	ctx, cancel := context.WithCancel(context.Background())
	q.Enqueue(Message{To: "a@example.com"})
	q.Enqueue(Message{To: "b@example.com"})

	q.Start(ctx)
	cancel()

	require.Eventually(t, func() bool { return sender.count() == 2 }, time.Second, 10*time.Millisecond)
	q.Close()
}
