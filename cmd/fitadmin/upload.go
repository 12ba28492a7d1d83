package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/studiowebux/fitadmin/internal/cli"
	"github.com/studiowebux/fitadmin/internal/upload"
)

// uploadedImage pairs a server filename with its public URL
type uploadedImage struct {
	File     string `json:"file" yaml:"file"`
	Filename string `json:"filename" yaml:"filename"`
	URL      string `json:"url" yaml:"url"`
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Validate and upload images or PDFs",
}

var uploadImageCmd = &cobra.Command{
	Use:   "image <file>...",
	Short: "Upload one or more images",
	Long: `Upload images. Each file must be an image under the size limit and at
least the configured minimum dimensions (400x600 by default). Files are
validated before anything is sent; a batch is all-or-nothing.`,
	Args: cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		files, err := upload.LoadFiles(args)
		if err != nil {
			return err
		}

		var names []string
		if len(files) == 1 {
			name, err := app.Uploads.UploadImage(cmd.Context(), files[0])
			if err != nil {
				return err
			}
			names = []string{name}
		} else {
			names, err = app.Uploads.UploadImages(cmd.Context(), files)
			if err != nil {
				var batchErr *upload.BatchError
				if errors.As(err, &batchErr) {
					for _, o := range batchErr.Result.Outcomes {
						evt := app.Log.Warn().Str("file", o.File)
						if o.Error != nil {
							evt = evt.Err(o.Error)
						} else {
							evt = evt.Str("filename", o.Filename)
						}
						evt.Msg("Batch outcome")
					}
				}
				return err
			}
		}

		uploaded := make([]uploadedImage, len(names))
		for i, name := range names {
			uploaded[i] = uploadedImage{File: files[i].Name, Filename: name, URL: app.Options.ImageURL(name)}
		}
		return printResult(cmd, uploaded)
	}),
}

var uploadPdfCmd = &cobra.Command{
	Use:   "pdf <file>",
	Short: "Convert a PDF to page images",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, app *cli.App) error {
		file, err := upload.LoadFile(args[0])
		if err != nil {
			return err
		}
		conv, err := app.Uploads.ConvertPdf(cmd.Context(), file)
		if err != nil {
			return err
		}
		return printResult(cmd, conv)
	}),
}

func init() {
	uploadCmd.AddCommand(uploadImageCmd, uploadPdfCmd)
}
