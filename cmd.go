package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func SetupCommands(a *App) *cobra.Command {
	// root command
	rootCmd := &cobra.Command{
		Use:           "timeconfirm",
		Short:         "Confirm pending work-hour records",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// interactive search/select/confirm loop
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Start an interactive confirmation session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.RunSession(cmd.Context())
		},
	}

	// command for listing pending records of an identity
	searchCmd := &cobra.Command{
		Use:   "search [identity]",
		Short: "Show pending records and recent confirmations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Search(cmd.Context(), args[0])
		},
	}

	// command for confirming records without the interactive menus
	var confirmOpts ConfirmOptions
	confirmCmd := &cobra.Command{
		Use:   "confirm [identity]",
		Short: "Confirm pending records by row reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Confirm(cmd.Context(), args[0], confirmOpts)
		},
	}
	confirmCmd.Flags().IntSliceVar(&confirmOpts.Rows, "rows", nil, "row references to confirm, e.g. 7,9")
	confirmCmd.Flags().BoolVar(&confirmOpts.All, "all", false, "confirm every pending record")
	confirmCmd.Flags().BoolVarP(&confirmOpts.Yes, "yes", "y", false, "skip the confirmation prompt")
	confirmCmd.MarkFlagsMutuallyExclusive("rows", "all")

	var exportPath string
	exportCmd := &cobra.Command{
		Use:   "export [identity]",
		Short: "Export pending records to an xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := exportPath
			if path == "" {
				path = NormalizeIdentity(args[0]) + ".xlsx"
			}
			return a.Export(cmd.Context(), args[0], path)
		},
	}
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "output file (default <identity>.xlsx)")

	var journalLimit int
	journalCmd := &cobra.Command{
		Use:   "journal [identity]",
		Short: "List confirmations sent from this machine",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var identity string
			if len(args) > 0 {
				identity = args[0]
			}
			return a.ShowJournal(cmd.Context(), identity, journalLimit)
		},
	}
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", 20, "number of entries")

	var watchSchedule string
	watchCmd := &cobra.Command{
		Use:   "watch [identity]",
		Short: "Poll pending records on a schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Watch(cmd.Context(), args[0], watchSchedule)
		},
	}
	watchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "cron spec or descriptor, e.g. \"@every 10m\"")

	normalizeCmd := &cobra.Command{
		Use:   "normalize [input]",
		Short: "Print the canonical form of an identity code",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), NormalizeIdentity(args[0]))
		},
	}

	// add commands
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(normalizeCmd)

	return rootCmd
}
