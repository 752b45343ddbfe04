package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/abhisek/thinkforge/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Pre-assign daily concepts on a schedule",
	Long:  "Runs the daily job that hands every recently active learner their concept of the day. Stops on SIGINT or SIGTERM.",
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().Bool("once", false, "Run the job once and exit")
}

func runWorker(cmd *cobra.Command, args []string) error {
	once, _ := cmd.Flags().GetBool("once")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	eng, cleanup, err := openEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	sched := scheduler.New(eng, cfg.Scheduler, logger)
	if once {
		n, err := sched.RunOnce(ctx)
		fmt.Printf("Assigned %d learners\n", n)
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	logger.Info("worker started", zap.String("at", cfg.Scheduler.At))
	<-ctx.Done()
	sched.Stop()
	logger.Info("worker stopped")
	return nil
}
