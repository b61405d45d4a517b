package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/habitus/internal/importer"
	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every activity, log and vacation day to a JSON or YAML document",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exportFormat(format, out)
			if err != nil {
				return err
			}

			doc, err := app.Exchange.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := importer.Encode(doc, f)
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d activities and %d logs to %s\n", len(doc.Activities), countLogs(doc), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from --out extension, else json)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "File to write (default stdout)")

	return cmd
}

func newImportCmd(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load a document written by export into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			var (
				doc *importer.Document
				err error
			)
			if format == "" {
				doc, err = importer.LoadDocument(path)
			} else {
				var f importer.Format
				if f, err = importer.ParseFormat(format); err != nil {
					return err
				}
				var data []byte
				if data, err = os.ReadFile(path); err != nil {
					return err
				}
				doc, err = importer.Decode(data, f)
			}
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			uc := app.importUseCase()
			if uc == nil {
				return fmt.Errorf("import use case is not configured")
			}
			res, err := uc.Import(cmd.Context(), doc)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d activities, %d snapshots, %d logs, %d vacation days\n",
				res.ActivityCount, res.SnapshotCount, res.LogCount, res.VacationCount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "json or yaml (default from file extension)")

	return cmd
}

func exportFormat(flag, out string) (importer.Format, error) {
	if flag != "" {
		return importer.ParseFormat(flag)
	}
	if out != "" {
		return importer.FormatFromPath(out), nil
	}
	return importer.FormatJSON, nil
}

func countLogs(doc *importer.Document) int {
	n := 0
	for _, a := range doc.Activities {
		n += len(a.Logs)
	}
	return n
}
