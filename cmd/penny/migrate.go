package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pennyledger/penny/internal/cli"
	"github.com/pennyledger/penny/internal/config"
	"github.com/pennyledger/penny/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// initStore migrates as part of opening.
			store, err := initStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Schema at version %d", storage.ExpectedSchemaVersion)))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show the current schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			// Open without migrating so status reports the version as-is.
			dbPath := viper.GetString("database.path")
			if dbPath == "" {
				dbPath = "$HOME/.local/share/penny/penny.db"
			}
			var opts []storage.Option
			if timeout := viper.GetInt("database.timeout"); timeout > 0 {
				opts = append(opts, storage.WithTimeout(time.Duration(timeout)*time.Second))
			}
			store, err := storage.Open(config.ExpandPath(dbPath), opts...)
			if err != nil {
				return err
			}
			defer store.Close()

			version, err := store.SchemaVersion(ctx)
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}

			if version == storage.ExpectedSchemaVersion {
				fmt.Println(cli.FormatSuccess(fmt.Sprintf("Schema up to date at version %d", version)))
			} else {
				fmt.Printf("Schema at version %d, latest is %d. Run 'penny migrate'.\n",
					version, storage.ExpectedSchemaVersion)
			}
			return nil
		},
	})

	return cmd
}
