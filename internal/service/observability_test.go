package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/alexanderramin/farmquest/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestSlogUseCaseObserver_Levels(t *testing.T) {
	var buf bytes.Buffer
	obs := NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	ctx := context.Background()

	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "daily-bonus", Success: true, Duration: 2 * time.Millisecond, Fields: map[string]any{"user": "u1"}})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "onboard", Err: &domain.ValidationError{Code: domain.ErrCodeAlreadyOnboarded, Message: "already onboarded"}})
	obs.ObserveUseCase(ctx, UseCaseEvent{Name: "import-catalog", Err: errors.New("disk full")})

	out := buf.String()
	assert.Contains(t, out, `level=INFO msg=use_case name=daily-bonus duration_ms=2 user=u1`)
	assert.Contains(t, out, `level=WARN msg=use_case name=onboard`)
	assert.Contains(t, out, `code=ALREADY_ONBOARDED`)
	assert.Contains(t, out, `level=ERROR msg=use_case name=import-catalog`)
	assert.Contains(t, out, `error="disk full"`)
}

func TestCombineObservers(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, CombineObservers(nil, nil))

	var a, b countingObserver
	assert.Same(t, &a, CombineObservers(nil, &a))

	combined := CombineObservers(&a, &b)
	combined.ObserveUseCase(context.Background(), UseCaseEvent{Name: "leaderboard"})
	assert.Equal(t, 1, a.n)
	assert.Equal(t, 1, b.n)
}

func TestObserve_ReportsNamedError(t *testing.T) {
	var rec countingObserver
	run := func() (err error) {
		defer observe(context.Background(), &rec, "update-profile", time.Now(), nil, &err)
		return domain.ErrAnswerRequired
	}
	_ = run()
	assert.False(t, rec.last.Success)
	assert.ErrorIs(t, rec.last.Err, domain.ErrAnswerRequired)
	assert.Equal(t, "update-profile", rec.last.Name)
}

type countingObserver struct {
	n    int
	last UseCaseEvent
}

func (c *countingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	c.n++
	c.last = e
}
