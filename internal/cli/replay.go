package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/pressable"
	"github.com/phanxgames/pressable/internal/eventlog"
)

type replayFlags struct {
	config  string
	record  string
	session string
	json    bool
}

// eventRecord is the --json output form of one event.
type eventRecord struct {
	Type        string  `json:"type"`
	Pressed     bool    `json:"pressed"`
	TimestampMS float64 `json:"timestampMs"`
	LocalX      float64 `json:"localX"`
	LocalY      float64 `json:"localY"`
	PageX       float64 `json:"pageX"`
	PageY       float64 `json:"pageY"`
}

func newReplayCmd(opts *options) *cobra.Command {
	f := &replayFlags{}
	cmd := &cobra.Command{
		Use:   "replay <script>",
		Short: "Replay a gesture script and print the events it produces",
		Long: `Replay runs a JSON or YAML gesture script against a fresh widget on a
virtual clock and prints every semantic event in order. Events can also be
recorded into a SQLite event log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.OutOrStdout(), args[0], f, opts.verbose)
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "gesture configuration file (TOML, JSON or YAML) applied before the script")
	cmd.Flags().StringVar(&f.record, "record", "", "SQLite database to record events into")
	cmd.Flags().StringVar(&f.session, "session", "", "session name for recorded events (default is the script name)")
	cmd.Flags().BoolVar(&f.json, "json", false, "print events as JSON lines")
	return cmd
}

func loadScriptFile(path string) (*pressable.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	ext := filepath.Ext(path)
	if ext == "" {
		ext = "json"
	}
	return pressable.LoadScript(data, ext)
}

func runReplay(out io.Writer, path string, f *replayFlags, verbose bool) error {
	script, err := loadScriptFile(path)
	if err != nil {
		return err
	}

	q := pressable.NewTimerQueue()
	name := script.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	p := pressable.NewPressable(name, q, nil)
	if verbose {
		p.SetLogger(slog.Default())
		p.SetDebugMode(true)
	}

	if f.config != "" {
		u, err := pressable.LoadConfigFile(f.config)
		if err != nil {
			return err
		}
		p.SetConfig(u)
	}

	var recordErr error
	if f.record != "" {
		store, err := eventlog.Open(f.record)
		if err != nil {
			return err
		}
		defer store.Close()
		session := f.session
		if session == "" {
			session = name
		}
		p.AddSink(store.Sink(session, func(err error) {
			if recordErr == nil {
				recordErr = err
			}
		}))
	}

	var printErr error
	enc := json.NewEncoder(out)
	p.OnEvent(func(e pressable.Event) {
		if printErr != nil {
			return
		}
		if f.json {
			printErr = enc.Encode(eventRecord{
				Type:        e.Type.String(),
				Pressed:     e.Pressed,
				TimestampMS: float64(e.Timestamp.Microseconds()) / 1000,
				LocalX:      e.LocalX,
				LocalY:      e.LocalY,
				PageX:       e.PageX,
				PageY:       e.PageY,
			})
			return
		}
		_, printErr = fmt.Fprintf(out, "%8.1fms  %-9s  local=(%g,%g) page=(%g,%g) pressed=%t\n",
			float64(e.Timestamp.Microseconds())/1000, e.Type, e.LocalX, e.LocalY, e.PageX, e.PageY, e.Pressed)
	})

	for _, res := range script.Run(p, q) {
		if !res.Handled {
			slog.Debug("event propagated", "step", res.Index, "action", res.Action, "label", res.Label)
		}
	}

	if printErr != nil {
		return fmt.Errorf("write events: %w", printErr)
	}
	if recordErr != nil {
		return fmt.Errorf("record events: %w", recordErr)
	}
	return nil
}
