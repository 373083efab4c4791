package cli

import (
	"fmt"
	"text/tabwriter"

	"blogicum/models"
	"blogicum/services"

	"github.com/spf13/cobra"
)

var categoryFlags struct {
	title       string
	description string
	unpublished bool
}

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category"},
	Short:   "Manage post categories",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <slug>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		published := !categoryFlags.unpublished
		req := &models.CreateCategoryRequest{
			Title:       categoryFlags.title,
			Description: categoryFlags.description,
			Slug:        args[0],
			IsPublished: &published,
		}
		if err := models.NewValidator().Struct(req); err != nil {
			return fmt.Errorf("invalid category: %w", err)
		}

		svc, err := categoryService()
		if err != nil {
			return err
		}
		category, err := svc.Create(req)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created category %s (id %d)\n", category.Slug, category.ID)
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all categories, published or not",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := categoryService()
		if err != nil {
			return err
		}
		categories, err := svc.List()
		if err != nil {
			return err
		}

		if len(categories) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No categories found.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPUBLISHED")
		for _, c := range categories {
			fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", c.ID, c.Slug, c.Title, c.IsPublished)
		}
		return w.Flush()
	},
}

var categoryPublishCmd = &cobra.Command{
	Use:   "publish <slug>",
	Short: "Make a category and its posts visible",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCategoryPublished(cmd, args[0], true)
	},
}

var categoryUnpublishCmd = &cobra.Command{
	Use:   "unpublish <slug>",
	Short: "Hide a category and all of its posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCategoryPublished(cmd, args[0], false)
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <slug>",
	Short: "Delete a category; its posts are kept without a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := categoryService()
		if err != nil {
			return err
		}
		if err := svc.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", args[0])
		return nil
	},
}

func init() {
	categoryCreateCmd.Flags().StringVar(&categoryFlags.title, "title", "", "category title")
	categoryCreateCmd.Flags().StringVar(&categoryFlags.description, "description", "", "category description")
	categoryCreateCmd.Flags().BoolVar(&categoryFlags.unpublished, "unpublished", false, "create the category hidden")
	categoryCreateCmd.MarkFlagRequired("title")

	categoriesCmd.AddCommand(categoryCreateCmd)
	categoriesCmd.AddCommand(categoryListCmd)
	categoriesCmd.AddCommand(categoryPublishCmd)
	categoriesCmd.AddCommand(categoryUnpublishCmd)
	categoriesCmd.AddCommand(categoryDeleteCmd)
}

func categoryService() (*services.CategoryService, error) {
	db, err := openDatabase()
	if err != nil {
		return nil, err
	}
	return services.NewCategoryService(db), nil
}

func setCategoryPublished(cmd *cobra.Command, slug string, published bool) error {
	svc, err := categoryService()
	if err != nil {
		return err
	}
	category, err := svc.SetPublished(slug, published)
	if err != nil {
		return err
	}

	state := "unpublished"
	if category.IsPublished {
		state = "published"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Category %s is now %s\n", category.Slug, state)
	return nil
}
