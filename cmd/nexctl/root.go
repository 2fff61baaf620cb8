package main

import (
	"fmt"
	"os"

	"github.com/nexlayer/backend/internal/config"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/internal/utils"
	"github.com/nexlayer/backend/pkg/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// cli carries the state shared by every subcommand.
type cli struct {
	cfgFile string
	cfg     *config.Config
	db      *gorm.DB
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:           "nexctl",
		Short:         "Administrative tasks for the NexLayer API",
		Long:          "nexctl runs out-of-band operations against the NexLayer database: role changes, team seeding, user listing and local test tokens.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.open()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.close()
		},
	}

	defaultPath := os.Getenv("CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "config.yaml"
	}
	root.PersistentFlags().StringVar(&app.cfgFile, "config", defaultPath, "config file")

	root.AddCommand(
		newSetRoleCmd(app),
		newSeedCmd(app),
		newUsersCmd(app),
		newTokenCmd(app),
	)
	return root
}

func (a *cli) open() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level)

	db, err := models.Open(&cfg.Database, false)
	if err != nil {
		return err
	}
	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	utils.SetJWTSecret(cfg.JWT.Secret)

	a.cfg, a.db = cfg, db
	return nil
}

func (a *cli) close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
