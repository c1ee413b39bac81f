package main

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jeff-002/SlackToJournal/internal/infrastructure/scheduler"
)

func newScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the weekly journal generation on a cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := buildApp(runOverrides{})
			defer a.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sched := scheduler.NewWeeklyScheduler(
				a.cfg.Scheduler.CronExpression,
				a.cfg.Scheduler.Location(),
			)

			job := func(t time.Time) {
				result, err := a.service.GenerateWeekly(ctx, t)
				if err != nil {
					a.logger.Error("scheduled run failed", "error", err)
					return
				}
				a.logger.Info("scheduled run finished",
					"messages", result.MessagesProcessed,
					"usedAI", result.UsedAI,
					"location", result.Entry.ExportLocation)
			}

			if err := sched.Start(ctx, job); err != nil {
				return err
			}
			a.logger.Info("scheduler started",
				"cron", a.cfg.Scheduler.CronExpression,
				"timezone", a.cfg.Scheduler.Timezone)

			<-ctx.Done()
			return sched.Stop(cmd.Context())
		},
	}

	return cmd
}
