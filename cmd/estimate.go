package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetops/core/admission"
)

var estimateCmd = &cobra.Command{
	Use:   "estimate <distance_km>",
	Short: "Print the work hour breakdown of a route",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := admission.ParseDistance(args[0])
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(admission.Breakdown(d), "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	rootCmd.AddCommand(estimateCmd)
}
