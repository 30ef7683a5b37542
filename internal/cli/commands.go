package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"sales_dashboard/internal/sales"
	"sales_dashboard/internal/spreadsheet"
)

func newImportCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import sales from a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			policy := spreadsheet.CoerceUnknown
			if strict {
				policy = spreadsheet.RejectUnknown
			}
			res, err := spreadsheet.ParseCSV(string(data), policy)
			if errors.Is(err, spreadsheet.ErrNoValidRows) {
				return fmt.Errorf("%s: %w (%d rows skipped)", args[0], err, res.Skipped)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.repo.BulkInsert(cmd.Context(), res.Sales); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d vendas importadas com sucesso! (%d linhas ignoradas)\n", len(res.Sales), res.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "skip rows with unknown type or status instead of using defaults")
	return cmd
}

func newExportCommand() *cobra.Command {
	var (
		format string
		output string
		filter sales.Filter
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export sales as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			write := spreadsheet.WriteCSV
			switch format {
			case "csv":
			case "xlsx":
				write = spreadsheet.WriteXLSX
			default:
				return fmt.Errorf("unknown format %q", format)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			list := filter.Apply(a.repo.List(cmd.Context()))

			if output == "" && format == "xlsx" {
				output = fmt.Sprintf("relatorio_vendas_%s.xlsx", time.Now().Format(time.DateOnly))
			}
			if output == "" {
				return write(cmd.OutOrStdout(), list)
			}
			return writeFile(output, list, write)
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout for csv)")
	cmd.Flags().StringVar(&filter.StartDate, "start", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.EndDate, "end", "", "last date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.Consultant, "consultant", "", "only this consultant")
	return cmd
}

func writeFile(path string, list []sales.Sale, write func(io.Writer, []sales.Sale) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f, list)
}

func newInsightsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Ask the AI analyst for a sales report",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			fmt.Fprintln(cmd.OutOrStdout(), a.requester.Generate(cmd.Context(), a.repo.List(cmd.Context())))
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert example sales",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			samples := a.repo.GenerateSampleData(cmd.Context())
			if len(samples) == 0 {
				return errors.New("Erro ao gerar dados.")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d vendas de exemplo criadas\n", len(samples))
			return nil
		},
	}
}
