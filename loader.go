package pressable

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// configFile is the on-disk form of a ConfigUpdate. Delays are whole
// milliseconds; absent keys leave the current value untouched.
type configFile struct {
	PressInDelayMS       *int64      `toml:"press_in_delay_ms" json:"press_in_delay_ms" yaml:"press_in_delay_ms"`
	LongPressDelayMS     *int64      `toml:"long_press_delay_ms" json:"long_press_delay_ms" yaml:"long_press_delay_ms"`
	HitSlop              *insetsFile `toml:"hit_slop" json:"hit_slop" yaml:"hit_slop"`
	PressRetentionOffset *float64    `toml:"press_retention_offset" json:"press_retention_offset" yaml:"press_retention_offset"`
	PressRetention       *insetsFile `toml:"press_retention" json:"press_retention" yaml:"press_retention"`
	Disabled             *bool       `toml:"disabled" json:"disabled" yaml:"disabled"`
	TestOnlyPressed      *bool       `toml:"test_only_pressed" json:"test_only_pressed" yaml:"test_only_pressed"`
	SoundOnPress         *bool       `toml:"sound_on_press" json:"sound_on_press" yaml:"sound_on_press"`
	SwallowEarlyRelease  *bool       `toml:"swallow_early_release" json:"swallow_early_release" yaml:"swallow_early_release"`
}

type insetsFile struct {
	Left   float64 `toml:"left" json:"left" yaml:"left"`
	Top    float64 `toml:"top" json:"top" yaml:"top"`
	Right  float64 `toml:"right" json:"right" yaml:"right"`
	Bottom float64 `toml:"bottom" json:"bottom" yaml:"bottom"`
}

func (f *insetsFile) insets() *Insets {
	if f == nil {
		return nil
	}
	return &Insets{Left: f.Left, Top: f.Top, Right: f.Right, Bottom: f.Bottom}
}

func msPtr(v *int64) *time.Duration {
	if v == nil {
		return nil
	}
	d := time.Duration(*v) * time.Millisecond
	return &d
}

func (f configFile) update() ConfigUpdate {
	u := ConfigUpdate{
		PressInDelay:        msPtr(f.PressInDelayMS),
		LongPressDelay:      msPtr(f.LongPressDelayMS),
		HitSlop:             f.HitSlop.insets(),
		PressRetention:      f.PressRetention.insets(),
		Disabled:            f.Disabled,
		TestOnlyPressed:     f.TestOnlyPressed,
		SoundOnPress:        f.SoundOnPress,
		SwallowEarlyRelease: f.SwallowEarlyRelease,
	}
	if f.PressRetentionOffset != nil {
		u.PressRetention = Ptr(UniformInsets(*f.PressRetentionOffset))
	}
	return u
}

// LoadConfigFile reads a partial configuration from a TOML, JSON or YAML
// file, chosen by extension. Unknown extensions are auto-detected.
func LoadConfigFile(path string) (ConfigUpdate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ConfigUpdate{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data, filepath.Ext(path))
}

// ParseConfig decodes a partial configuration. ext selects the format
// (".toml", ".json", ".yaml" or ".yml"); anything else is auto-detected.
func ParseConfig(data []byte, ext string) (ConfigUpdate, error) {
	var f configFile
	switch ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &f); err != nil {
			return ConfigUpdate{}, fmt.Errorf("decode TOML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &f); err != nil {
			return ConfigUpdate{}, fmt.Errorf("decode JSON: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &f); err != nil {
			return ConfigUpdate{}, fmt.Errorf("decode YAML: %w", err)
		}
	default:
		if err := autoDetectAndParse(data, &f); err != nil {
			return ConfigUpdate{}, fmt.Errorf("parse config: %w", err)
		}
	}
	return f.update(), nil
}

// autoDetectAndParse attempts to parse the config in multiple formats.
func autoDetectAndParse(data []byte, f *configFile) error {
	if _, err := toml.Decode(string(data), f); err == nil {
		return nil
	}
	*f = configFile{}
	if err := json.Unmarshal(data, f); err == nil {
		return nil
	}
	*f = configFile{}
	if err := yaml.Unmarshal(data, f); err == nil {
		return nil
	}
	return fmt.Errorf("unable to detect config format")
}

// --- Hot reload ---

const configDebounce = 100 * time.Millisecond

// ConfigWatcher reloads a configuration file when it changes and hands each
// update to a poster, typically Loop.Post, so it is applied on the event
// thread between pointer events.
type ConfigWatcher struct {
	path    string
	post    func(func()) bool
	apply   func(ConfigUpdate)
	watcher *fsnotify.Watcher
	ctx     context.Context
	cancel  context.CancelFunc
	errChan chan error
}

// WatchConfig starts watching path. On every write or create of the file the
// new contents are decoded and apply is posted through post.
func WatchConfig(path string, post func(func()) bool, apply func(ConfigUpdate)) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch directory: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &ConfigWatcher{
		path:    path,
		post:    post,
		apply:   apply,
		watcher: watcher,
		ctx:     ctx,
		cancel:  cancel,
		errChan: make(chan error, 1),
	}
	go w.watchLoop()
	return w, nil
}

func (w *ConfigWatcher) watchLoop() {
	var debounceTimer *time.Timer
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()
	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(configDebounce, w.reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *ConfigWatcher) reload() {
	if w.ctx.Err() != nil {
		return
	}
	u, err := LoadConfigFile(w.path)
	if err != nil {
		w.report(fmt.Errorf("reload config: %w", err))
		return
	}
	if !w.post(func() { w.apply(u) }) {
		w.report(fmt.Errorf("reload config: %w", ErrLoopClosed))
	}
}

func (w *ConfigWatcher) report(err error) {
	select {
	case w.errChan <- err:
	default:
	}
}

// Errors returns a channel for receiving errors that occur during watching.
func (w *ConfigWatcher) Errors() <-chan error {
	return w.errChan
}

// Close stops the watcher and releases resources.
func (w *ConfigWatcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}
