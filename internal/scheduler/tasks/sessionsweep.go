package tasks

import (
	"context"

	"github.com/reelscout/reelscout/internal/scheduler"
)

const SessionSweepTaskID = "session-sweep"

// Sweeper removes expired sessions and reports how many it removed.
type Sweeper interface {
	Sweep() int
}

// RegisterSessionSweepTask registers the session sweep task with the scheduler.
// The task runs every five minutes and drops search state of idle sessions.
func RegisterSessionSweepTask(sched *scheduler.Scheduler, sessions Sweeper) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          SessionSweepTaskID,
		Name:        "Session Sweep",
		Description: "Removes search sessions idle for longer than the session TTL",
		Cron:        "*/5 * * * *",
		RunOnStart:  false,
		Func: func(ctx context.Context) error {
			sessions.Sweep()
			return nil
		},
	})
}
