package tasks

import (
	"context"

	"github.com/reelscout/reelscout/internal/health"
	"github.com/reelscout/reelscout/internal/scheduler"
)

const ProviderHealthTaskID = "provider-health"

// RegisterProviderHealthTask registers the movie provider connectivity check.
// It runs on start and every fifteen minutes, recording the result on the
// provider health item.
func RegisterProviderHealthTask(sched *scheduler.Scheduler, svc *health.Service, provider health.Tester) error {
	return sched.RegisterTask(scheduler.TaskConfig{
		ID:          ProviderHealthTaskID,
		Name:        "Provider Health Check",
		Description: "Checks the movie search credentials and connectivity",
		Cron:        "*/15 * * * *",
		RunOnStart:  true,
		Func: func(ctx context.Context) error {
			return health.Check(ctx, svc, health.ProviderID, provider)
		},
	})
}
