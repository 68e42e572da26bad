package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestScheduler_RunsAndStops(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler()
	s.AddJob(Job{Name: "tick", Interval: 10 * time.Millisecond, Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}})

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)

	s.Stop()
	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load())

	s.Stop()
}

func TestScheduler_SkipInitialRun(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler()
	s.AddJob(Job{Name: "slow", Interval: time.Hour, SkipInitialRun: true, Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}})

	s.Start()
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	assert.Zero(t, runs.Load())
}

func TestScheduler_RunOnceSurvivesFailures(t *testing.T) {
	var ran []string
	s := NewScheduler()
	s.AddJob(Job{Name: "fails", Interval: time.Hour, Fn: func(ctx context.Context) error {
		ran = append(ran, "fails")
		return errors.New("boom")
	}})
	s.AddJob(Job{Name: "panics", Interval: time.Hour, Fn: func(ctx context.Context) error {
		ran = append(ran, "panics")
		panic("bad job")
	}})
	s.AddJob(Job{Name: "ok", Interval: time.Hour, Fn: func(ctx context.Context) error {
		ran = append(ran, "ok")
		return nil
	}})

	s.RunOnce(context.Background())
	assert.Equal(t, []string{"fails", "panics", "ok"}, ran)
}
