package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rgehrsitz/lensquote/internal/config"
	"github.com/rgehrsitz/lensquote/internal/domain"
	"github.com/rgehrsitz/lensquote/internal/money"
)

func tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables [quote-file]",
		Short: "List the price catalog and fitting fees",
		Long: `List manufacturers, brands and fitting fees. With a quote file that carries
inline tables those are listed; otherwise the configured spreadsheet is fetched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFor(cmd)

			var tables *domain.Tables
			var err error
			if len(args) == 1 {
				qf, perr := config.NewInputParser().LoadFromFile(args[0])
				if perr != nil {
					return perr
				}
				tables, err = quoteTables(cmd.Context(), cmd, qf, logger)
			} else {
				tables, err = loadTables(cmd.Context(), cmd, logger)
			}
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatCatalog(tables))
			return nil
		},
	}
	return cmd
}

// formatCatalog renders the catalog with prices, then the fee table
func formatCatalog(tables *domain.Tables) string {
	var sb strings.Builder

	sb.WriteString("PRICE CATALOG\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	for _, manufacturer := range tables.Prices.Manufacturers() {
		sb.WriteString(manufacturer + "\n")
		for _, brand := range tables.Prices.Brands(manufacturer) {
			row, _ := tables.Prices.Lookup(manufacturer, brand)
			sb.WriteString(fmt.Sprintf("  %-40s %10s/box  %3d boxes/yr  rebate %s new, %s current\n",
				brand,
				money.Format(row.PricePerBox),
				row.BoxesPerYearSupply,
				money.Format(row.RebateForNewWearer),
				money.Format(row.RebateForCurrentWearer)))
		}
	}

	sb.WriteString("\nFITTING FEES\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-12s %12s %16s %16s\n", "Type", "Self pay", "Insurance new", "Insurance est."))
	for _, fee := range tables.Fees.Rows() {
		sb.WriteString(fmt.Sprintf("%-12s %12s %16s %16s\n",
			fee.FittingType,
			money.Format(fee.SelfPayFee),
			money.Format(fee.InsuranceNewFee),
			money.Format(fee.InsuranceEstablishedFee)))
	}

	if tables.Stale {
		sb.WriteString("\n! Served from the cached copy of the pricing sheet.\n")
	}
	return sb.String()
}
