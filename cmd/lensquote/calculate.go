package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/lensquote/internal/config"
	"github.com/rgehrsitz/lensquote/internal/output"
)

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [quote-file]",
		Short: "Calculate a contact lens quote",
		Long: `Calculate a contact lens quote from a YAML quote file.

Examples:
  lensquote calculate quote.yaml
  lensquote calculate quote.yaml --format console --set set_supply:mode=six
  lensquote calculate quote.yaml --format html --output quote.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, _ := cmd.Flags().GetString("format")
			outputFile, _ := cmd.Flags().GetString("output")

			f := output.GetFormatterByName(outputFormat)
			if f == nil {
				return fmt.Errorf("unknown format %q (available: %s; aliases: %s)", outputFormat,
					strings.Join(output.AvailableFormatterNames(), ", "),
					strings.Join(output.AvailableFormatAliases(), ", "))
			}

			q, err := buildQuote(cmd.Context(), cmd, args[0])
			if err != nil {
				return err
			}

			data, err := f.Format(q)
			if err != nil {
				return err
			}
			if outputFile != "" {
				if err := os.WriteFile(outputFile, data, 0644); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Quote written to %s\n", outputFile)
				return nil
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringP("format", "f", "console-lite", "Output format (console-lite, console, csv, json, html)")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().StringArray("set", nil, "Extra command applied after the file, e.g. set_supply:mode=six (repeatable)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [quote-file]",
		Short: "Validate a quote file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := config.NewInputParser().LoadFromFile(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Quote file %s is valid\n", args[0])
			return nil
		},
	}
}
