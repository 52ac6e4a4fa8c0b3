package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/lensquote/internal/compare"
	"github.com/rgehrsitz/lensquote/internal/domain"
)

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [quote-file]",
		Short: "Compare the quote across supply options",
		Long: `Derive the same quote for a year supply, a 6 month supply and one box per
eye, and call out the lowest cost per box and the lowest out-of-pocket total.

Examples:
  lensquote compare quote.yaml
  lensquote compare quote.yaml --base six --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseStr, _ := cmd.Flags().GetString("base")
			outputFormat, _ := cmd.Flags().GetString("format")

			var base domain.SupplyMode
			if baseStr != "" {
				mode, err := domain.ParseSupplyMode(baseStr)
				if err != nil {
					return err
				}
				base = mode
			}

			sess, qf, err := quoteSession(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			compareEngine := compare.NewCompareEngine(nil)
			compareEngine.CalcEngine.SetLogger(loggerFor(cmd))
			comparisonSet, err := compareEngine.Compare(sess.Tables(), sess.Selection(), compare.CompareOptions{
				BaseMode: base,
				Patient:  qf.Patient,
			})
			if err != nil {
				return err
			}

			var out string
			switch outputFormat {
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(comparisonSet)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true}).Format(comparisonSet)
			case "compact":
				out = (&compare.TableFormatter{}).FormatCompact(comparisonSet) + "\n"
			case "table", "":
				out = (&compare.TableFormatter{}).Format(comparisonSet)
			default:
				return fmt.Errorf("unknown format %q (table, compact, csv, json)", outputFormat)
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("base", "", "Supply mode to compare against (default: the quote's supply)")
	cmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	cmd.Flags().StringArray("set", nil, "Extra command applied after the file (repeatable)")
	return cmd
}
