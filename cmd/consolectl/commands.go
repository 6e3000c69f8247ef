package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ingestdesk/internal/domain"
	"ingestdesk/internal/resultsync"
	"ingestdesk/internal/service"
)

func newCasesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cases",
		Short: "Manage CRM import cases",
	}
	cmd.AddCommand(newCasesSubmitCmd(), newCasesListCmd(), newCasesExportCmd())
	return cmd
}

func newCasesSubmitCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "submit [case-number...]",
		Short: "Queue case numbers (arguments, --file, or stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readCaseInput(args, file, cmd.InOrStdin())
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.imports.Submit(cmd.Context(), input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d case numbers submitted, %d new\n", res.Submitted, res.Inserted)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read case numbers from a file ('-' for stdin)")
	return cmd
}

func newCasesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the most recent cases and their status",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			window, err := a.imports.Recent(cmd.Context())
			if err != nil {
				return err
			}
			return writeCaseTable(cmd.OutOrStdout(), window)
		},
	}
}

func newCasesExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every import result as an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			export, err := a.imports.Export(cmd.Context())
			if err != nil {
				return err
			}
			return saveExport(cmd.OutOrStdout(), export, out)
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output path (defaults to the generated file name)")
	return cmd
}

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Follow and export extraction results",
	}
	cmd.AddCommand(newResultsExportCmd(), newResultsWatchCmd())
	return cmd
}

func newResultsExportCmd() *cobra.Command {
	var (
		project string
		format  string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a project's results as csv or xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := uuid.Parse(project)
			if err != nil {
				return fmt.Errorf("invalid --project: %w", err)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			export, err := a.results.Export(cmd.Context(), projectID, domain.ExportFormat(strings.ToLower(format)))
			if err != nil {
				return err
			}
			return saveExport(cmd.OutOrStdout(), export, out)
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project id")
	cmd.Flags().StringVar(&format, "format", "csv", "Export format: csv or xlsx")
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output path (defaults to the generated file name)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newResultsWatchCmd() *cobra.Command {
	var project string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print a line every time the recent result window changes",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := resultsync.AllProjects()
			if project != "" {
				id, err := uuid.Parse(project)
				if err != nil {
					return fmt.Errorf("invalid --project: %w", err)
				}
				scope = resultsync.ProjectScope(id)
			}

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			w := a.results.Watch(scope)
			defer w.Close()

			out := cmd.OutOrStdout()
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-w.Done():
					return nil
				case <-w.C:
					snap := w.Snapshot()
					if snap.Loading {
						continue
					}
					fmt.Fprintf(out, "v%d\t%d results", snap.Version, len(snap.Rows))
					if len(snap.Rows) > 0 {
						fmt.Fprintf(out, "\tlatest: %s", snap.Rows[0].SourceFile)
					}
					fmt.Fprintln(out)
				}
			}
		},
	}
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project id (all projects when empty)")
	return cmd
}

// readCaseInput joins case numbers from arguments, a file, or stdin, in that
// order of preference. Parsing and de-duplication happen in the service.
func readCaseInput(args []string, file string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, "\n"), nil
	}

	var r io.Reader = stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading case numbers: %w", err)
	}
	return string(data), nil
}

func writeCaseTable(w io.Writer, window *service.CaseWindow) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CASE\tSTATUS\tCREATED\tERROR")
	for _, c := range window.Cases {
		errMsg := ""
		if c.ErrorMessage != nil {
			errMsg = *c.ErrorMessage
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.CaseNumber, c.Status, c.CreatedAt.Format("2006-01-02 15:04"), errMsg)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := window.Stats
	_, err := fmt.Fprintf(w, "\ntotal %d  processing %d  completed %d  errors %d\n",
		s.Total, s.Processing, s.Completed, s.Errors)
	return err
}

func saveExport(stdout io.Writer, export *service.Export, path string) error {
	if path == "" {
		path = export.Filename
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.Write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %d rows to %s\n", len(export.Table.Rows), path)
	return nil
}
