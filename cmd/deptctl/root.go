package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/department-app/internal/config"
	"github.com/spec-kit/department-app/internal/observability"
	"github.com/spec-kit/department-app/internal/persistence"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "deptctl",
		Short:        "Operator tooling for the department app",
		SilenceUsage: true,
	}
	root.AddCommand(
		newMigrateCommand(),
		newHashPasswordCommand(),
		newTokenCommand(),
		newSeedCommand(),
	)
	return root
}

// runtime is what every command needs from the environment.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
}

func loadRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observability.NewLogger(cfg.Logger, "deptctl")
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return &runtime{cfg: cfg, logger: logger}, nil
}

// openDatabase connects without applying migrations; callers decide.
func (r *runtime) openDatabase(ctx context.Context) (persistence.Database, error) {
	dbCfg := r.cfg.Database
	dbCfg.RunMigrations = false
	return persistence.Open(ctx, dbCfg, r.logger)
}
