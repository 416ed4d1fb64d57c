package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tickiton/deployer/configs"
	"github.com/tickiton/deployer/internal/deploy"
	"github.com/tickiton/deployer/internal/logger"
	"github.com/tickiton/deployer/internal/tickiton"
)

const appName = "tickiton"

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Deploy the TickItOn contract with per-network constructor arguments",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(viper.GetViper()); err != nil {
			return err
		}

		return initLogger(os.Stderr, configs.Values.LogLevel)
	},
}

// initLogger runs after loadConfig so log-level from a config file or
// TICKITON_LOG_LEVEL applies, not only the flag.
func initLogger(w io.Writer, level string) error {
	parsed, err := logger.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log-level %q: %w", level, err)
	}
	logger.Initialize(w, parsed)

	slog.With("level", parsed.String()).Debug("logger initialized")

	return nil
}

func loadConfig(v *viper.Viper) error {
	if err := configs.ApplyDefaults(v); err != nil {
		return err
	}
	if err := configs.BindEnv(v); err != nil {
		return err
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if execPath, err := os.Executable(); err == nil {
		v.AddConfigPath(filepath.Dir(execPath))
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	// A config file is optional; defaults, env and flags can carry everything.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			const errMsg = "error reading config file"
			slog.With("err", err.Error()).Error(errMsg)
			return errors.Join(err, errors.New(errMsg))
		}
		slog.Debug("no config file found, will rely on flags, environment and defaults")
	} else {
		slog.With("config_file", v.ConfigFileUsed()).Debug("config file loaded")
	}

	if err := v.Unmarshal(&configs.Values); err != nil {
		const errMsg = "unable to decode application config"
		slog.With("err", err.Error()).Error(errMsg)
		return errors.Join(err, errors.New(errMsg))
	}

	slog.With("network", configs.Values.Deploy.Network).Debug("configuration loaded")

	return nil
}

func main() {
	rootCmd.AddCommand(tickiton.DeployCMD)
	rootCmd.AddCommand(tickiton.BalanceCMD)
	rootCmd.AddCommand(tickiton.NetworksCMD)
	rootCmd.AddCommand(tickiton.CompileCMD)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		slog.With("err", err.Error()).Error("failed to execute root command")
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(deploy.ExitCode(err))
	}
}
