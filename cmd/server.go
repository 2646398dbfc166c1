package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hashassin/hashassin/lib/cache"
	"github.com/hashassin/hashassin/lib/config"
	"github.com/hashassin/hashassin/lib/display"
	"github.com/hashassin/hashassin/lib/hashassinerrors"
	"github.com/hashassin/hashassin/lib/server"
	"github.com/hashassin/hashassin/shared"
)

var (
	serverBind           string
	serverPort           int
	serverComputeThreads int
	serverAsyncThreads   int
	serverCacheSize      int64
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the hashassin cracking service",
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverBind, "bind", config.DefaultBindAddr, "address to bind")
	serverCmd.Flags().IntVar(&serverPort, "port", config.DefaultPort, "TCP port to listen on")
	serverCmd.Flags().IntVar(&serverComputeThreads, "compute-threads", config.DefaultComputeThreads, "size of the compute worker pool")
	serverCmd.Flags().IntVar(&serverAsyncThreads, "async-threads", config.DefaultAsyncThreads, "max concurrent connections handled")
	serverCmd.Flags().Int64Var(&serverCacheSize, "cache-size", config.DefaultCacheSizeBytes, "crack response cache budget in bytes; 0 disables caching")

	_ = viper.BindPFlag("bind", serverCmd.Flags().Lookup("bind"))
	_ = viper.BindPFlag("port", serverCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("compute_threads", serverCmd.Flags().Lookup("compute-threads"))
	_ = viper.BindPFlag("async_threads", serverCmd.Flags().Lookup("async-threads"))
	_ = viper.BindPFlag("cache_size", serverCmd.Flags().Lookup("cache-size"))
}

func runServer(_ *cobra.Command, _ []string) error {
	config.SetupSharedState()

	if serverPort == 0 {
		return fmt.Errorf("%w: --port must not be 0", hashassinerrors.ErrArgument)
	}

	if shared.State.CacheSizeBytes < 0 {
		return fmt.Errorf("%w: --cache-size must not be negative", hashassinerrors.ErrArgument)
	}

	rt := server.New(shared.State.ComputeThreads, shared.State.AsyncThreads)

	c, err := cache.New(shared.State.CacheSizeBytes)
	if err != nil {
		return err
	}

	rt.SetCache(c)

	display.Startup(shared.State.BindAddr, shared.State.Port, shared.State.ComputeThreads, shared.State.AsyncThreads)

	ctx, cancel := context.WithCancel(shared.State.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		shared.Logger.Debug("received shutdown signal")
		cancel()
	}()

	err = rt.Serve(ctx, shared.State.BindAddr, shared.State.Port)

	display.ShuttingDown()

	return err
}
