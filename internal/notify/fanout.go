package notify

import (
	"context"
	"time"

	"github.com/m3rciful/phoneshop/core/logger"
	"log/slog"
)

// SendFunc delivers one payload to one recipient.
type SendFunc func(recipient int64) error

// Result accumulates per-recipient outcomes of a fan-out batch.
type Result struct {
	Sent   int
	Failed int
}

// Total reports the number of attempted deliveries.
func (r Result) Total() int {
	return r.Sent + r.Failed
}

// Fanout delivers a payload to each recipient independently. A failure for
// one recipient increments the failure counter and is logged with the
// recipient id; it never aborts the rest of the batch. Recipients are
// processed strictly one at a time with the given delay between sends;
// the serialization is the rate ceiling, do not parallelize it. Cancelling
// the context abandons the remainder of the batch.
func Fanout(ctx context.Context, recipients []int64, delay time.Duration, send SendFunc) Result {
	var res Result
	for i, uid := range recipients {
		if ctx.Err() != nil {
			logger.Warn(ctx, "service.broadcast", "fanout.abandoned",
				slog.String("status", "cancelled"),
				slog.Int("recipients", len(recipients)),
				slog.Int("sent", res.Sent),
				slog.Int("failed", res.Failed),
			)
			return res
		}

		if err := send(uid); err != nil {
			res.Failed++
			logger.Error(ctx, "service.broadcast", "fanout.delivery",
				slog.String("status", "fail"),
				slog.Int64("user_id", uid),
				slog.String("err", logger.SanitizeLimit(err.Error(), 256)),
			)
		} else {
			res.Sent++
		}

		if delay > 0 && i < len(recipients)-1 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}
	return res
}
