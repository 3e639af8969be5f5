package pressable

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ScriptStep is a single action in a replay script.
type ScriptStep struct {
	Action string      `json:"action"`
	Label  string      `json:"label,omitempty"`
	X      float64     `json:"x,omitempty"`
	Y      float64     `json:"y,omitempty"`
	ToX    float64     `json:"toX,omitempty"`
	ToY    float64     `json:"toY,omitempty"`
	Frames int         `json:"frames,omitempty"`
	MS     int64       `json:"ms,omitempty"`
	Config *configFile `json:"config,omitempty"`
	Layout *layoutFile `json:"layout,omitempty"`
}

type layoutFile struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (l layoutFile) rect() Rect {
	return Rect{X: l.X, Y: l.Y, Width: l.Width, Height: l.Height}
}

// Script is a replayable sequence of pointer, hover, timing and
// configuration steps against one Pressable.
type Script struct {
	Name   string       `json:"name,omitempty"`
	Layout *layoutFile  `json:"layout,omitempty"`
	Config *configFile  `json:"config,omitempty"`
	Steps  []ScriptStep `json:"steps"`
}

const scriptSchemaURL = "pressable://script.schema.json"

const scriptSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["steps"],
  "properties": {
    "name": {"type": "string"},
    "layout": {"$ref": "#/definitions/layout"},
    "config": {"$ref": "#/definitions/config"},
    "steps": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/step"}}
  },
  "definitions": {
    "layout": {
      "type": "object",
      "required": ["width", "height"],
      "properties": {
        "x": {"type": "number"},
        "y": {"type": "number"},
        "width": {"type": "number", "minimum": 0},
        "height": {"type": "number", "minimum": 0}
      },
      "additionalProperties": false
    },
    "insets": {
      "type": "object",
      "properties": {
        "left": {"type": "number"},
        "top": {"type": "number"},
        "right": {"type": "number"},
        "bottom": {"type": "number"}
      },
      "additionalProperties": false
    },
    "config": {
      "type": "object",
      "properties": {
        "press_in_delay_ms": {"type": "integer"},
        "long_press_delay_ms": {"type": "integer"},
        "hit_slop": {"$ref": "#/definitions/insets"},
        "press_retention_offset": {"type": "number"},
        "press_retention": {"$ref": "#/definitions/insets"},
        "disabled": {"type": "boolean"},
        "test_only_pressed": {"type": "boolean"},
        "sound_on_press": {"type": "boolean"},
        "swallow_early_release": {"type": "boolean"}
      },
      "additionalProperties": false
    },
    "step": {
      "type": "object",
      "required": ["action"],
      "properties": {
        "action": {"enum": ["down", "move", "up", "cancel", "tap", "drag", "hoverIn", "hoverOut", "wait", "config", "layout", "destroy"]},
        "label": {"type": "string"},
        "x": {"type": "number"},
        "y": {"type": "number"},
        "toX": {"type": "number"},
        "toY": {"type": "number"},
        "frames": {"type": "integer", "minimum": 2},
        "ms": {"type": "integer", "minimum": 0},
        "config": {"$ref": "#/definitions/config"},
        "layout": {"$ref": "#/definitions/layout"}
      },
      "additionalProperties": false,
      "allOf": [
        {"if": {"properties": {"action": {"enum": ["down", "move", "up", "tap", "hoverIn", "hoverOut"]}}},
         "then": {"required": ["x", "y"]}},
        {"if": {"properties": {"action": {"const": "drag"}}},
         "then": {"required": ["x", "y", "toX", "toY"]}},
        {"if": {"properties": {"action": {"const": "wait"}}},
         "then": {"required": ["ms"]}},
        {"if": {"properties": {"action": {"const": "config"}}},
         "then": {"required": ["config"]}},
        {"if": {"properties": {"action": {"const": "layout"}}},
         "then": {"required": ["layout"]}}
      ]
    }
  }
}`

var compiledScriptSchema = jsonschema.MustCompileString(scriptSchemaURL, scriptSchema)

// LoadScript parses and validates a replay script. format is "json" or
// "yaml" (a leading dot and "yml" are accepted too).
func LoadScript(data []byte, format string) (*Script, error) {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format == "yaml" || format == "yml" {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse script: %w", err)
		}
		// Round-trip through JSON so validation and decoding see the
		// same value types for both formats.
		var err error
		if data, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("parse script: %w", err)
		}
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := compiledScriptSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("validate script: %w", err)
	}

	var script Script
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return &script, nil
}

// setup applies the script's initial layout and configuration.
func (s *Script) setup(p *Pressable) {
	if s.Layout != nil {
		p.SetLayout(s.Layout.rect())
	}
	if s.Config != nil {
		p.SetConfig(s.Config.update())
	}
}

// StepResult records the outcome of one step in Run.
type StepResult struct {
	Index   int
	Action  string
	Label   string
	At      time.Duration
	Handled bool
}

// Run replays the whole script against p, using q as the clock. Pointer steps
// happen at the current clock time and "wait" advances it.
func (s *Script) Run(p *Pressable, q *TimerQueue) []StepResult {
	s.setup(p)
	results := make([]StepResult, 0, len(s.Steps))
	for i, st := range s.Steps {
		res := StepResult{Index: i, Action: st.Action, Label: st.Label, At: q.Now(), Handled: true}
		switch st.Action {
		case "down":
			res.Handled = p.HandlePointer(PointerDown, At(st.X, st.Y, q.Now()))
		case "move":
			res.Handled = p.HandlePointer(PointerMove, At(st.X, st.Y, q.Now()))
		case "up":
			res.Handled = p.HandlePointer(PointerUp, At(st.X, st.Y, q.Now()))
		case "cancel":
			res.Handled = p.HandlePointer(PointerCancel, PointerSample{Time: q.Now(), NoPosition: true})
		case "tap":
			down := p.HandlePointer(PointerDown, At(st.X, st.Y, q.Now()))
			up := p.HandlePointer(PointerUp, At(st.X, st.Y, q.Now()))
			res.Handled = down && up
		case "drag":
			res.Handled = s.drag(p, q, st)
		case "hoverIn":
			p.HandleHover(HoverEnter, At(st.X, st.Y, q.Now()))
		case "hoverOut":
			p.HandleHover(HoverExit, At(st.X, st.Y, q.Now()))
		case "wait":
			q.Advance(time.Duration(st.MS) * time.Millisecond)
		case "config":
			p.SetConfig(st.Config.update())
		case "layout":
			p.SetLayout(st.Layout.rect())
		case "destroy":
			p.Destroy()
		}
		results = append(results, res)
	}
	return results
}

// drag replays a drag step: a down, frames-2 interpolated moves and an up,
// spread evenly over st.MS.
func (s *Script) drag(p *Pressable, q *TimerQueue, st ScriptStep) bool {
	frames := max(st.Frames, 2)
	tick := time.Duration(st.MS) * time.Millisecond / time.Duration(frames-1)
	handled := p.HandlePointer(PointerDown, At(st.X, st.Y, q.Now()))
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		q.Advance(tick)
		t := float64(i) / float64(steps+1)
		x := st.X + (st.ToX-st.X)*t
		y := st.Y + (st.ToY-st.Y)*t
		if !p.HandlePointer(PointerMove, At(x, y, q.Now())) {
			handled = false
		}
	}
	q.Advance(tick)
	if !p.HandlePointer(PointerUp, At(st.ToX, st.ToY, q.Now())) {
		handled = false
	}
	return handled
}

// ScriptRunner sequences a script across frames through a Pressable's inject
// queue, for hosts that drive input once per tick.
type ScriptRunner struct {
	script    *Script
	cursor    int
	started   bool
	waitUntil time.Duration
	done      bool
}

// NewScriptRunner returns a runner positioned at the first step.
func NewScriptRunner(s *Script) *ScriptRunner {
	return &ScriptRunner{script: s}
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame. Call it after advancing q and
// before p.Update.
func (r *ScriptRunner) Step(p *Pressable, q *TimerQueue) {
	if r.done {
		return
	}
	if !r.started {
		r.script.setup(p)
		r.started = true
	}
	// Wait for pending injections to drain before advancing.
	if p.InjectPending() > 0 {
		return
	}
	if q.Now() < r.waitUntil {
		return
	}
	if r.cursor >= len(r.script.Steps) {
		r.done = true
		return
	}

	st := r.script.Steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "down":
		p.InjectDown(st.X, st.Y)
	case "move":
		p.InjectMove(st.X, st.Y)
	case "up":
		p.InjectUp(st.X, st.Y)
	case "cancel":
		p.InjectCancel()
	case "tap":
		p.InjectTap(st.X, st.Y)
	case "drag":
		p.InjectDrag(st.X, st.Y, st.ToX, st.ToY, max(st.Frames, 2))
	case "hoverIn":
		p.InjectHoverIn(st.X, st.Y)
	case "hoverOut":
		p.InjectHoverOut(st.X, st.Y)
	case "wait":
		r.waitUntil = q.Now() + time.Duration(st.MS)*time.Millisecond
	case "config":
		p.SetConfig(st.Config.update())
	case "layout":
		p.SetLayout(st.Layout.rect())
	case "destroy":
		p.Destroy()
	}

	if r.cursor >= len(r.script.Steps) && p.InjectPending() == 0 && q.Now() >= r.waitUntil {
		r.done = true
	}
}
