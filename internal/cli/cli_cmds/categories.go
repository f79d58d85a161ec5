package cli_cmds

import (
	"fmt"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/domain/usecases"
	"github.com/ZanzyTHEbar/gallery-go/internal/cli"
	"github.com/spf13/cobra"
)

// NewCategories creates the command group for gallery categories
func NewCategories(params *cli.CmdParams) *cobra.Command {
	categoriesCmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage gallery categories",
		Long:    `List, inspect, create, update and delete the categories images are grouped in.`,
	}

	categoriesCmd.AddCommand(newCategoriesList(params))
	categoriesCmd.AddCommand(newCategoriesGet(params))
	categoriesCmd.AddCommand(newCategoriesCreate(params))
	categoriesCmd.AddCommand(newCategoriesUpdate(params))
	categoriesCmd.AddCommand(newCategoriesDelete(params))

	return categoriesCmd
}

func newCategoriesList(params *cli.CmdParams) *cobra.Command {
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			app, err := params.RequireApp(cmd)
			if err != nil {
				return err
			}

			categories, _, err := app.Categories.ListAll(cmd.Context())
			if err := reportStale(cmd, params, err, len(categories) > 0); err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), categories)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tIMAGE")
			for _, c := range categories {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Description, c.Image)
			}
			return tw.Flush()
		},
	}

	listCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table or json)")
	return listCmd
}

func newCategoriesGet(params *cli.CmdParams) *cobra.Command {
	var format string

	getCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := params.RequireApp(cmd)
			if err != nil {
				return err
			}

			category, _, err := app.Categories.GetByID(cmd.Context(), id)
			if err := reportStale(cmd, params, err, category.ID != 0); err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), category)
			}
			printCategory(cmd, category)
			return nil
		},
	}

	getCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table or json)")
	return getCmd
}

func printCategory(cmd *cobra.Command, c models.Category) {
	tw := newTable(cmd.OutOrStdout())
	fmt.Fprintf(tw, "ID:\t%d\n", c.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", c.Name)
	fmt.Fprintf(tw, "Description:\t%s\n", c.Description)
	fmt.Fprintf(tw, "Image:\t%s\n", c.Image)
	_ = tw.Flush()
}

func newCategoriesCreate(params *cli.CmdParams) *cobra.Command {
	var payload models.CategoryPayload

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := params.RequireApp(cmd)
			if err != nil {
				return err
			}

			res := app.Categories.Create(cmd.Context(), payload)
			if !res.OK {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %d\n", res.Data.ID)
			return nil
		},
	}

	createCmd.Flags().StringVarP(&payload.Name, "name", "n", "", "Category name")
	createCmd.Flags().StringVarP(&payload.Description, "description", "d", "", "Category description")
	createCmd.Flags().StringVarP(&payload.Image, "image", "i", "", "Cover image of the category")
	_ = createCmd.MarkFlagRequired("name")
	return createCmd
}

func newCategoriesUpdate(params *cli.CmdParams) *cobra.Command {
	var name, description, image string

	updateCmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update a category",
		Long:  `Update a category. Fields whose flag is not given keep their current value.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := params.RequireApp(cmd)
			if err != nil {
				return err
			}

			current, _, err := app.Categories.GetByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("%s: %w", models.Reason(err), err)
			}

			payload := current.Payload()
			flags := cmd.Flags()
			if flags.Changed("name") {
				payload.Name = name
			}
			if flags.Changed("description") {
				payload.Description = description
			}
			if flags.Changed("image") {
				payload.Image = image
			}

			res := app.Categories.Update(cmd.Context(), id, payload)
			if !res.OK {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated category %d\n", res.Data.ID)
			return nil
		},
	}

	updateCmd.Flags().StringVarP(&name, "name", "n", "", "Category name")
	updateCmd.Flags().StringVarP(&description, "description", "d", "", "Category description")
	updateCmd.Flags().StringVarP(&image, "image", "i", "", "Cover image of the category")
	return updateCmd
}

func newCategoriesDelete(params *cli.CmdParams) *cobra.Command {
	var yes bool

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := params.RequireApp(cmd)
			if err != nil {
				return err
			}

			if !yes {
				name := args[0]
				if current, _, err := app.Categories.GetByID(cmd.Context(), id); err == nil {
					name = current.Name
				}
				if !confirm(cmd, usecases.DeleteConfirmation("category", name)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			res := app.Categories.Delete(cmd.Context(), id)
			if !res.OK {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %d\n", id)
			return nil
		},
	}

	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return deleteCmd
}
