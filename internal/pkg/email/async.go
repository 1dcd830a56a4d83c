package email

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const asyncSendTimeout = 30 * time.Second

// AsyncEmailService hands every notification to a goroutine so request
// handlers never wait on SMTP retries. Failures are only logged.
type AsyncEmailService struct {
	next EmailService
	wg   sync.WaitGroup
}

func NewAsyncEmailService(next EmailService) *AsyncEmailService {
	return &AsyncEmailService{next: next}
}

func (a *AsyncEmailService) dispatch(ctx context.Context, kind, to string, send func(ctx context.Context) error) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), asyncSendTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			slog.Error("failed to send notification email", "kind", kind, "to", to, "error", err)
		}
	}()
}

func (a *AsyncEmailService) SendWelcome(ctx context.Context, data WelcomeData) error {
	a.dispatch(ctx, "welcome", data.To, func(ctx context.Context) error {
		return a.next.SendWelcome(ctx, data)
	})
	return nil
}

func (a *AsyncEmailService) SendLeaveDecision(ctx context.Context, data LeaveDecisionData) error {
	a.dispatch(ctx, "leave_decision", data.To, func(ctx context.Context) error {
		return a.next.SendLeaveDecision(ctx, data)
	})
	return nil
}

// Wait blocks until every dispatched e-mail has been attempted.
func (a *AsyncEmailService) Wait() {
	a.wg.Wait()
}
