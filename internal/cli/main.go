package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/forPelevin/furycut/internal/domain/profile"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := &cobra.Command{
		Use:          "furycut <video>",
		Short:        "Find trainer battle cut points in a gameplay capture",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0])
		},
	}

	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)
	root.SilenceErrors = true

	// Visible flags
	root.Flags().StringP("version", "v", "", "Game version: "+strings.Join(profile.Versions(), ", "))
	root.Flags().StringSliceP("trainers", "t", nil, "Override the game's trainer list")
	root.Flags().StringP("out", "o", "", "Output JSON path (default: <video>.json)")
	root.Flags().IntP("workers", "w", 4, "Worker goroutines for cut point searches")
	root.Flags().Bool("quiet", false, "Suppress progress output")
	_ = root.MarkFlagRequired("version")

	// Tuning flags (hidden: defaults assume 240fps captures)
	root.Flags().Int("transition-jump", 720, "Frame jump for the transition search")
	root.Flags().Int("early-interval", 480, "Sample interval for the early game, in frames")
	root.Flags().Int("normal-interval", 1440, "Sample interval after the early game, in frames")
	root.Flags().Int("early-minutes", 10, "Minutes of footage sampled at the early interval")
	for _, f := range []string{"transition-jump", "early-interval", "normal-interval", "early-minutes"} {
		_ = root.Flags().MarkHidden(f)
	}

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
