package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pennyledger/penny/internal/cli"
	"github.com/pennyledger/penny/internal/common"
	"github.com/pennyledger/penny/internal/model"
	"github.com/pennyledger/penny/internal/storage"
)

func themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Get or set the UI theme preference",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Show the current theme",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			pref, err := storage.NewPreferenceRepository(store).Get(ctx, model.PrefTheme)
			if errors.Is(err, common.ErrNotFound) {
				fmt.Println(cli.SubtleStyle.Render("No theme set."))
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get theme: %w", err)
			}

			fmt.Println(pref.Data)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <name>",
		Short: "Set the theme",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			pref, err := storage.NewPreferenceRepository(store).Set(ctx, model.PrefTheme, args[0])
			if err != nil {
				return fmt.Errorf("failed to set theme: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Theme set to %q", pref.Data)))
			return nil
		},
	})

	return cmd
}
