package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetops/config"
	"github.com/kilianp07/fleetops/core/admission"
	"github.com/kilianp07/fleetops/core/fleet"
)

var (
	admitSnapshot string
	admitDraft    string
	admitRefuel   string
)

var admitCmd = &cobra.Command{
	Use:   "admit",
	Short: "Evaluate a mission draft against a fleet snapshot",
	Long: "Evaluate a mission draft against a fleet snapshot file and print the decision as JSON.\n" +
		"With --refuel, a refuel decision is resolved with the given choice (topToNeed, topToFull or decline).",
	RunE: runAdmit,
}

func init() {
	admitCmd.Flags().StringVar(&admitSnapshot, "snapshot", "fleet.yaml", "fleet snapshot file (yaml or json)")
	admitCmd.Flags().StringVar(&admitDraft, "draft", "", "mission draft file (yaml or json)")
	admitCmd.Flags().StringVar(&admitRefuel, "refuel", "", "refuel choice applied when fuel is missing")
	_ = admitCmd.MarkFlagRequired("draft")
	rootCmd.AddCommand(admitCmd)
}

func runAdmit(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	snap, err := fleet.LoadSnapshot(admitSnapshot)
	if err != nil {
		return err
	}
	draft, err := fleet.LoadDraft(admitDraft)
	if err != nil {
		return err
	}
	coord := admission.NewCoordinator(cfg.Admission)

	var dec admission.Decision
	if admitRefuel != "" {
		choice, err := admission.ParseRefuelChoice(admitRefuel)
		if err != nil {
			return err
		}
		dec = coord.ResolveRefuel(snap, draft, choice)
	} else {
		dec = coord.Evaluate(snap, draft)
	}
	out, err := json.MarshalIndent(dec, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
