package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"nasmover/internal/activity"
	"nasmover/internal/config"
	"nasmover/internal/daemon"
	"nasmover/internal/db"
	"nasmover/internal/logger"
	"nasmover/internal/pipeline"
	"nasmover/internal/repository"
	"nasmover/internal/syncer/local"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source folder and relocate new folders until stopped",
	RunE:  runDaemon,
}

func runDaemon(cmd *cobra.Command, args []string) error {
	defer logger.Sync()

	if err := cfg.ValidatePaths(); err != nil {
		return err
	}

	fileLog, err := activity.OpenFile(cfg.LogPath)
	if err != nil {
		return err
	}

	defer func(fileLog *activity.File) {
		_ = fileLog.Close()
	}(fileLog)

	recent := activity.NewMemory(50)
	sink := activity.Multi(fileLog, recent)

	root, err := local.ValidateRoot(cfg.WatchRoot)
	if err != nil {
		sink.Append(fmt.Sprintf("Watch folder unavailable: %s", cfg.WatchRoot))
		logger.Log.Error("watch root unavailable",
			zap.String("dir", cfg.WatchRoot),
			zap.Error(err))
		return err
	}

	ignore, err := pipeline.NewIgnore(cfg.IgnoreList)
	if err != nil {
		return err
	}

	lock := daemon.NewLock(filepath.Join(filepath.Dir(cfg.DBPath), "nasmover.lock"))
	if err := lock.Acquire(); err != nil {
		return err
	}

	defer func(lock *daemon.Lock) {
		if err := lock.Release(); err != nil {
			logger.Log.Warn("failed to release lock", zap.Error(err))
		}
	}(lock)

	if err := db.Init(cfg.DBPath); err != nil {
		return err
	}
	history := repository.NewHistoryRepository(nil)

	relocator, err := local.NewRelocator(cfg.DestRoot, local.Options{
		Settler:      newSettler(cfg),
		StrictRemove: cfg.StrictRemove,
		MaxInflight:  cfg.MaxInflight,
		Ignore:       ignore,
		Activity:     sink,
	})
	if err != nil {
		return err
	}

	src, err := local.NewSource(root, cfg.BufferSize)
	if err != nil {
		return err
	}

	state := daemon.NewState(root, relocator.Dst(), recent)
	rt, err := daemon.NewRuntime(daemon.RuntimeDeps{
		Source:    src,
		Relocator: relocator,
		History:   history,
		Activity:  sink,
		State:     state,
	})
	if err != nil {
		src.Stop()
		return err
	}

	srv := daemon.NewServer(state, history, cfg.DaemonPort)
	srv.Start()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- rt.Run(ctx)
	}()

	logger.Log.Info("nasmover daemon started",
		zap.String("watch", root),
		zap.String("dest", relocator.Dst()),
		zap.Duration("grace", cfg.GracePeriod),
		zap.String("settle", string(cfg.SettleMode)),
		zap.Int("port", cfg.DaemonPort))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var runErr error
	select {
	case sig := <-sigCh:
		logger.Log.Info("shutting down",
			zap.String("signal", sig.String()))
		cancel()
		runErr = <-done
	case <-srv.StopCh():
		logger.Log.Info("stop requested via API")
		cancel()
		runErr = <-done
	case runErr = <-done:
		logger.Log.Warn("runtime exited unexpectedly", zap.Error(runErr))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Log.Warn("failed to stop daemon server", zap.Error(err))
	}

	return runErr
}

func newSettler(cfg *config.Config) local.Settler {
	if cfg.SettleMode == config.SettleStable {
		return local.StableSettler{
			Grace:    cfg.GracePeriod,
			Interval: cfg.StableInterval,
			Checks:   cfg.StableChecks,
		}
	}

	return local.DelaySettler{Grace: cfg.GracePeriod}
}

func init() {
	watchCmd.Flags().String("src", "", "folder to watch (overrides watch_root)")
	watchCmd.Flags().String("dst", "", "folder to move files into (overrides dest_root)")
	watchCmd.Flags().Duration("grace", 0, "wait after a folder appears (overrides grace_period)")

	_ = viper.BindPFlag("watch_root", watchCmd.Flags().Lookup("src"))
	_ = viper.BindPFlag("dest_root", watchCmd.Flags().Lookup("dst"))
	_ = viper.BindPFlag("grace_period", watchCmd.Flags().Lookup("grace"))

	rootCmd.AddCommand(watchCmd)
}
