package service

import (
	"context"
	"time"
)

// RealClock is the production Clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// NoPusher is wired when no APNs credentials are configured. Dispatch
// still records content diffs; notification_sent stays false.
type NoPusher struct{}

func (NoPusher) Push(context.Context, string) (int, string, error) { return 0, "", nil }
