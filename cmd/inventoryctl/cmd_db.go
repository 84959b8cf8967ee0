package main

import (
	"fmt"

	"batani-inventory/internal/config"
	"batani-inventory/internal/repository"
	"batani-inventory/pkg/database"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// bootDB loads config and opens a migrated database connection.
func bootDB() (*gorm.DB, config.Config, error) {
	cfg := config.Load()
	db, err := database.Connect(cfg.Database())
	if err != nil {
		return nil, cfg, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, cfg, err
	}
	return db, cfg, nil
}

// inventoryctl migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, _, err := bootDB(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	},
}

// inventoryctl seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the starter suppliers into an empty store",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, _, err := bootDB()
		if err != nil {
			return err
		}
		added, err := repository.NewSupplierRepo(db).SeedDefaults()
		if err != nil {
			return err
		}
		if added == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Suppliers already present, nothing seeded")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d suppliers\n", added)
		return nil
	},
}
