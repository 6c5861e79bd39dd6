package notify

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFanoutCountsFailuresWithoutAborting(t *testing.T) {
	recipients := []int64{1, 2, 3, 4, 5}
	blocked := map[int64]bool{2: true, 4: true}

	var attempted []int64
	res := Fanout(context.Background(), recipients, 0, func(uid int64) error {
		attempted = append(attempted, uid)
		if blocked[uid] {
			return errors.New("Forbidden: bot was blocked by the user")
		}
		return nil
	})

	if len(attempted) != len(recipients) {
		t.Fatalf("attempted %d of %d recipients", len(attempted), len(recipients))
	}
	if res.Sent != 3 || res.Failed != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Total() != len(recipients) {
		t.Fatalf("total = %d", res.Total())
	}
}

func TestFanoutEmptyAudienceReportsZeroZero(t *testing.T) {
	// An audience that resolves to nobody completes immediately with 0/0.
	res := Fanout(context.Background(), nil, time.Hour, func(int64) error {
		t.Fatal("send called with empty audience")
		return nil
	})
	if res.Sent != 0 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestFanoutAbandonsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var sent int
	res := Fanout(ctx, []int64{1, 2, 3}, 0, func(int64) error {
		sent++
		if sent == 1 {
			cancel()
		}
		return nil
	})

	if sent != 1 {
		t.Fatalf("sent %d messages after cancellation", sent)
	}
	if res.Sent != 1 || res.Failed != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestFanoutPacesBetweenSends(t *testing.T) {
	const delay = 10 * time.Millisecond
	start := time.Now()
	Fanout(context.Background(), []int64{1, 2, 3}, delay, func(int64) error {
		return nil
	})
	// Two gaps between three sends.
	if elapsed := time.Since(start); elapsed < 2*delay {
		t.Fatalf("batch finished in %v, expected at least %v", elapsed, 2*delay)
	}
}
