package cli_cmds

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/gallery-go/domain/models"
	"github.com/ZanzyTHEbar/gallery-go/domain/usecases"
	"github.com/ZanzyTHEbar/gallery-go/internal"
	"github.com/ZanzyTHEbar/gallery-go/internal/cli"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewImages creates the command group for gallery images
func NewImages(params *cli.CmdParams) *cobra.Command {
	imagesCmd := &cobra.Command{
		Use:     "images",
		Aliases: []string{"image", "img"},
		Short:   "Manage gallery images",
		Long:    `Browse, upload, update and delete gallery images.`,
	}

	imagesCmd.AddCommand(newImagesList(params))
	imagesCmd.AddCommand(newImagesGet(params))
	imagesCmd.AddCommand(newImagesCreate(params))
	imagesCmd.AddCommand(newImagesUpdate(params))
	imagesCmd.AddCommand(newImagesDelete(params))

	return imagesCmd
}

func newImagesList(params *cli.CmdParams) *cobra.Command {
	var (
		format   string
		category string
		search   string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List images",
		Long: `List images with their category and upload age.

Use --category with a category id to show a single category and --search to
match part of the image name, ignoring case.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			app, err := params.RequireApp(cmd)
			if err != nil {
				return err
			}

			views, err := app.Gallery.View(cmd.Context(), category, search)
			if err != nil {
				cached, _ := app.Images.CachedList()
				if err := reportStale(cmd, params, err, len(cached) > 0); err != nil {
					return err
				}
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), views)
			}
			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tUPLOADED\tSIZE\tRESOLUTION\tURL")
			for _, v := range views {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
					v.ID, v.Name, v.CategoryName, v.UploadAge, v.Metadata.Size, v.Metadata.Resolution, v.URL)
			}
			return tw.Flush()
		},
	}

	listCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table or json)")
	listCmd.Flags().StringVarP(&category, "category", "c", usecases.AllCategories, "Category id to show, or \"all\"")
	listCmd.Flags().StringVarP(&search, "search", "s", "", "Only show images whose name contains this text")
	return listCmd
}

func newImagesGet(params *cli.CmdParams) *cobra.Command {
	var format string

	getCmd := &cobra.Command{
		Use:   "get [id]",
		Short: "Show an image",
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

			image, _, err := app.Images.GetByID(cmd.Context(), id)
			if err := reportStale(cmd, params, err, image.ID != 0); err != nil {
				return err
			}

			if format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), image)
			}

			categories, _ := app.Categories.CachedList()
			if len(categories) == 0 {
				categories, _, _ = app.Categories.ListAll(cmd.Context())
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintf(tw, "ID:\t%d\n", image.ID)
			fmt.Fprintf(tw, "Name:\t%s\n", image.Name)
			fmt.Fprintf(tw, "URL:\t%s\n", image.URL)
			fmt.Fprintf(tw, "Category:\t%s (%d)\n", usecases.CategoryName(categories, image.CategoryID), image.CategoryID)
			fmt.Fprintf(tw, "Uploaded:\t%s (%s)\n", image.UploadDate, usecases.UploadAge(image.UploadDate, app.Now()))
			fmt.Fprintf(tw, "Size:\t%s\n", image.Metadata.Size)
			fmt.Fprintf(tw, "Resolution:\t%s\n", image.Metadata.Resolution)
			return tw.Flush()
		},
	}

	getCmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format (table or json)")
	return getCmd
}

// selectFile turns a --file path into the descriptor sent to the API.
// An empty path selects nothing. The size of a readable local file is
// returned so it can fill in missing metadata.
func selectFile(params *cli.CmdParams, path string) (*models.FileDescriptor, string) {
	if path == "" {
		return nil, ""
	}
	file := &models.FileDescriptor{Name: filepath.Base(path)}
	info, err := os.Stat(path)
	if err != nil {
		if params.Logger != nil {
			params.Logger.Debug(internal.ComponentCLI, "Cannot stat %s, sending name only: %v", path, err)
		}
		return file, ""
	}
	return file, humanize.Bytes(uint64(info.Size()))
}

func newImagesCreate(params *cli.CmdParams) *cobra.Command {
	var (
		name       string
		path       string
		metadata   models.ImageMetadata
		categoryID int64
	)

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Upload an image",
		Long: `Upload an image. The selected file's name becomes the image URL.
When --size is omitted it is taken from the local file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := params.RequireApp(cmd)
			if err != nil {
				return err
			}

			file, size := selectFile(params, path)
			if !cmd.Flags().Changed("size") {
				metadata.Size = size
			}

			res := app.Images.CreateFromFile(cmd.Context(), name, file, metadata, categoryID)
			if !res.OK {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created image %d\n", res.Data.ID)
			return nil
		},
	}

	createCmd.Flags().StringVarP(&name, "name", "n", "", "Image name")
	createCmd.Flags().StringVar(&path, "file", "", "Image file to upload")
	createCmd.Flags().StringVar(&metadata.Size, "size", "", "File size, e.g. \"2 MB\"")
	createCmd.Flags().StringVar(&metadata.Resolution, "resolution", "", "Image resolution, e.g. \"1920x1080\"")
	createCmd.Flags().Int64VarP(&categoryID, "category", "c", models.DefaultImageCategoryID, "Category id")
	return createCmd
}

func newImagesUpdate(params *cli.CmdParams) *cobra.Command {
	var (
		name       string
		path       string
		size       string
		resolution string
		categoryID int64
	)

	updateCmd := &cobra.Command{
		Use:   "update [id]",
		Short: "Update an image",
		Long: `Update an image. A file must be selected with --file; the stored URL is kept.
Fields whose flag is not given keep their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := params.RequireApp(cmd)
			if err != nil {
				return err
			}

			current, _, err := app.Images.GetByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("%s: %w", models.Reason(err), err)
			}

			payload := current.Payload()
			flags := cmd.Flags()
			if flags.Changed("name") {
				payload.Name = name
			}
			if flags.Changed("size") {
				payload.Metadata.Size = size
			}
			if flags.Changed("resolution") {
				payload.Metadata.Resolution = resolution
			}
			if flags.Changed("category") {
				payload.CategoryID = categoryID
			}

			file, _ := selectFile(params, path)
			res := app.Images.UpdateFromFile(cmd.Context(), id, file, payload)
			if !res.OK {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated image %d\n", res.Data.ID)
			return nil
		},
	}

	updateCmd.Flags().StringVarP(&name, "name", "n", "", "Image name")
	updateCmd.Flags().StringVar(&path, "file", "", "Selected image file")
	updateCmd.Flags().StringVar(&size, "size", "", "File size")
	updateCmd.Flags().StringVar(&resolution, "resolution", "", "Image resolution")
	updateCmd.Flags().Int64VarP(&categoryID, "category", "c", 0, "Category id")
	return updateCmd
}

func newImagesDelete(params *cli.CmdParams) *cobra.Command {
	var yes bool

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an image",
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
				if current, _, err := app.Images.GetByID(cmd.Context(), id); err == nil {
					name = current.Name
				}
				if !confirm(cmd, usecases.DeleteConfirmation("image", name)) {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
					return nil
				}
			}

			res := app.Images.Delete(cmd.Context(), id)
			if !res.OK {
				return res.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted image %d\n", id)
			return nil
		},
	}

	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return deleteCmd
}
