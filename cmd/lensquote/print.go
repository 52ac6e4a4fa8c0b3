package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/lensquote/internal/output"
)

func printCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "print [quote-file]",
		Short: "Print a quote to PDF",
		Long: `Render the quote as HTML and print it to a Letter-size PDF with headless
Chrome. Set CHROME_PATH when Chrome is not on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile, _ := cmd.Flags().GetString("output")
			timeout, _ := cmd.Flags().GetDuration("timeout")
			if outputFile == "" {
				outputFile = fmt.Sprintf("lens_quote_%s.pdf", time.Now().Format("20060102_150405"))
			}

			q, err := buildQuote(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			printer := output.NewPDFPrinter()
			if timeout > 0 {
				printer.Timeout = timeout
			}
			pdf, err := printer.PrintQuote(cmd.Context(), q)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outputFile, pdf, 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Quote printed to %s\n", outputFile)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "PDF path (default lens_quote_<timestamp>.pdf)")
	cmd.Flags().Duration("timeout", 0, "Give up on Chrome after this long (default 30s)")
	cmd.Flags().StringArray("set", nil, "Extra command applied after the file (repeatable)")
	return cmd
}
