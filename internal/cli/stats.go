package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pressable"
	"github.com/phanxgames/pressable/internal/eventlog"
)

var statsOrder = []pressable.EventType{
	pressable.EventPressIn,
	pressable.EventPressOut,
	pressable.EventPress,
	pressable.EventLongPress,
	pressable.EventPressMove,
	pressable.EventHoverIn,
	pressable.EventHoverOut,
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <db>",
		Short: "Summarize a recorded event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := eventlog.Open(args[0])
			if err != nil {
				return fmt.Errorf("could not open %s as sqlite file: %w", args[0], err)
			}
			defer store.Close()

			counts, err := store.Counts()
			if err != nil {
				return err
			}
			sessions, err := store.Sessions()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "sessions\t%d\n", len(sessions))
			for _, t := range statsOrder {
				fmt.Fprintf(w, "%s\t%d\n", t, counts[t])
			}
			return w.Flush()
		},
	}
}
