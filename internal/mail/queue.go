package mail

import (
	"context"
	"log/slog"
	"sync"
)

// Queue decouples mail delivery from the request lifecycle. Handlers enqueue
// and answer immediately; a single worker drains the channel and logs
// failures. Delivery errors are never surfaced to the caller.
type Queue struct {
	sender Sender
	logger *slog.Logger
	tasks  chan Message

	wg   sync.WaitGroup
	once sync.Once
}

func NewQueue(sender Sender, logger *slog.Logger, buffer int) *Queue {
	if buffer <= 0 {
		buffer = 64
	}
	return &Queue{
		sender: sender,
		logger: logger,
		tasks:  make(chan Message, buffer),
	}
}

// Start launches the delivery worker. It drains remaining tasks after ctx is
// cancelled, then exits.
func (q *Queue) Start(ctx context.Context) {
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case msg, ok := <-q.tasks:
				if !ok {
					return
				}
				q.deliver(msg)
			case <-ctx.Done():
				for {
					select {
					case msg, ok := <-q.tasks:
						if !ok {
							return
						}
						q.deliver(msg)
					default:
						return
					}
				}
			}
		}
	}()
}

// Enqueue hands a message to the worker without blocking the request. A full
// queue drops the message and logs it, matching the fire-and-forget contract.
func (q *Queue) Enqueue(msg Message) {
	select {
	case q.tasks <- msg:
	default:
		q.logger.Error("mail queue full, message dropped", "to", msg.To, "subject", msg.Subject)
	}
}

func (q *Queue) deliver(msg Message) {
	if err := q.sender.Send(msg); err != nil {
		q.logger.Error("mail delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
		return
	}
	q.logger.Info("mail delivered", "to", msg.To, "subject", msg.Subject)
}

// Close stops accepting work and waits for the worker to finish.
func (q *Queue) Close() {
	q.once.Do(func() { close(q.tasks) })
	q.wg.Wait()
}
