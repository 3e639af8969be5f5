package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pressable"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <config>",
		Short: "Print the effective gesture configuration whenever a file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWatch(ctx, cmd, args[0])
		},
	}
}

func runWatch(ctx context.Context, cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()

	loop := pressable.NewLoop()
	p := pressable.NewPressable("watch", loop, nil)

	u, err := pressable.LoadConfigFile(path)
	if err != nil {
		return err
	}
	p.SetConfig(u)
	printConfig(cmd, p.Config())

	w, err := pressable.WatchConfig(path, loop.Post, func(u pressable.ConfigUpdate) {
		p.SetConfig(u)
		printConfig(cmd, p.Config())
	})
	if err != nil {
		return err
	}
	defer w.Close()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-w.Errors():
				fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
			}
		}
	}()

	fmt.Fprintf(out, "watching %s\n", path)
	if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func printConfig(cmd *cobra.Command, c pressable.GestureConfig) {
	fmt.Fprintf(cmd.OutOrStdout(),
		"pressInDelay=%s longPressDelay=%s hitSlop=%+v retention=%g disabled=%t testOnlyPressed=%t sound=%t swallowEarlyRelease=%t\n",
		c.PressInDelay, c.LongPressDelay, c.HitSlop, c.PressRetentionOffset,
		c.Disabled, c.TestOnlyPressed, c.SoundOnPress, c.SwallowEarlyRelease)
}
