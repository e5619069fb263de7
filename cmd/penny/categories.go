package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pennyledger/penny/internal/cli"
	"github.com/pennyledger/penny/internal/common"
	"github.com/pennyledger/penny/internal/model"
	"github.com/pennyledger/penny/internal/storage"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage categories",
		Long:  `List, add, and delete the categories transactions are organized under.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var categoryType string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			repo := storage.NewCategoryRepository(store)

			var categories []model.Category
			if categoryType != "" {
				categories, err = repo.GetByType(ctx, model.RecordType(categoryType))
			} else {
				categories, err = repo.GetAll(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render("No categories found. Use 'penny categories add' to create one."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Type"),
				cli.HeaderStyle.Render("Budget"),
				cli.HeaderStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 20),
				strings.Repeat("-", 8),
				strings.Repeat("-", 10),
				strings.Repeat("-", 40))

			for _, cat := range categories {
				budget := cli.SubtleStyle.Render("-")
				if cat.Budget != nil {
					budget = formatAmount(*cat.Budget)
				}
				desc := cat.Description
				if desc == "" {
					desc = cli.SubtleStyle.Render("(no description)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cat.Name, cat.Type, budget, desc)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&categoryType, "type", "", "filter by type (Expense, Income, Transfer)")

	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		categoryType        string
		categoryBudget      float64
		categoryDescription string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			if !model.RecordType(categoryType).Valid() {
				return fmt.Errorf("invalid category type %q (want Expense, Income, or Transfer)", categoryType)
			}

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			fields := storage.Fields{
				"name": name,
				"type": categoryType,
			}
			if cmd.Flags().Changed("budget") {
				fields["budget"] = categoryBudget
			}
			if categoryDescription != "" {
				fields["description"] = categoryDescription
			}

			cat, err := storage.NewCategoryRepository(store).Create(ctx, fields)
			if errors.Is(err, common.ErrDuplicateEntry) {
				return common.NewUserError(fmt.Sprintf("category %q already exists", name), err)
			}
			if err != nil {
				return fmt.Errorf("failed to create category: %w", err)
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created category %q (%s)", cat.Name, cat.Type)))
			return nil
		},
	}

	cmd.Flags().StringVar(&categoryType, "type", string(model.TypeExpense), "category type (Expense, Income, Transfer)")
	cmd.Flags().Float64Var(&categoryBudget, "budget", 0, "monthly budget for the category")
	cmd.Flags().StringVar(&categoryDescription, "description", "", "category description")

	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Long:  `Soft-delete a category by name. Its transactions are kept.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			name := args[0]

			store, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			repo := storage.NewCategoryRepository(store)
			cat, err := repo.GetByName(ctx, name)
			if errors.Is(err, common.ErrNotFound) {
				return common.NewUserError(fmt.Sprintf("no category named %q", name), err)
			}
			if err != nil {
				return fmt.Errorf("failed to look up category: %w", err)
			}

			deleted, err := repo.Delete(ctx, cat.ID)
			if err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}
			if !deleted {
				fmt.Println(cli.InfoStyle.Render("Category was already deleted."))
				return nil
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted category %q", name)))
			return nil
		},
	}
}
