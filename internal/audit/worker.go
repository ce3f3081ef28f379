package audit

import "context"

// Worker drains an event channel into the publisher so hot paths record
// without blocking on storage. Backpressure is the channel buffer; a full
// buffer blocks the producer rather than dropping trail entries.
type Worker struct {
	publisher *Publisher
	inbox     <-chan Event
}

func NewWorker(publisher *Publisher, inbox <-chan Event) *Worker {
	return &Worker{publisher: publisher, inbox: inbox}
}

// Run consumes until the context is cancelled, the inbox is closed, or an
// append fails.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.inbox:
			if !ok {
				return nil
			}
			if err := w.publisher.Emit(ctx, event); err != nil {
				return err
			}
		}
	}
}
