package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/calkins/teampulse/internal/profile"
	"github.com/calkins/teampulse/server"
	"github.com/calkins/teampulse/store"
	"github.com/calkins/teampulse/store/db/notion"
	"github.com/calkins/teampulse/store/db/sqlite"
)

const version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "teampulse",
	Short: "Task reconciliation and team insight service",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile := &profile.Profile{
			Mode:    viper.GetString("mode"),
			Addr:    viper.GetString("addr"),
			Port:    viper.GetInt("port"),
			Data:    viper.GetString("data"),
			Driver:  viper.GetString("driver"),
			DSN:     viper.GetString("dsn"),
			Version: version,
		}
		instanceProfile.FromEnv()
		if err := instanceProfile.Validate(); err != nil {
			slog.Error("invalid configuration", "error", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		driver, err := newDriver(instanceProfile)
		if err != nil {
			slog.Error("failed to create record store driver", "error", err)
			os.Exit(1)
		}
		storeInstance := store.New(driver, instanceProfile)
		if err := storeInstance.Ping(ctx); err != nil {
			slog.Error("failed to reach record store", "driver", instanceProfile.Driver, "error", err)
			os.Exit(1)
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			slog.Error("failed to create server", "error", err)
			os.Exit(1)
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigCh
			slog.Info("shutting down")
			s.Shutdown(ctx)
			cancel()
		}()

		printGreeting(instanceProfile)
		if err := s.Start(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			cancel()
		}

		<-ctx.Done()
	},
}

func newDriver(p *profile.Profile) (store.Driver, error) {
	switch p.Driver {
	case "notion":
		return notion.New(p), nil
	case "sqlite":
		return sqlite.NewDB(p)
	default:
		return nil, fmt.Errorf("unsupported driver %q", p.Driver)
	}
}

func printGreeting(p *profile.Profile) {
	fmt.Printf(`teampulse %s
mode:   %s
driver: %s
listen: %s:%d
---
`, p.Version, p.Mode, p.Driver, p.Addr, p.Port)
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod" or "dev"`)
	rootCmd.PersistentFlags().String("addr", "", "binding address for the server")
	rootCmd.PersistentFlags().Int("port", 8232, "binding port for the server")
	rootCmd.PersistentFlags().String("data", "", "data directory for the embedding cache and dev database")
	rootCmd.PersistentFlags().String("driver", "", `record store driver, "notion" or "sqlite"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name for the sqlite driver")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("teampulse")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("failed to run command", "error", err)
		os.Exit(1)
	}
}
