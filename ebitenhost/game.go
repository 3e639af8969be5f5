package ebitenhost

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/pressable"
)

const maxLogLines = 8

var (
	clearColor   = color.RGBA{R: 35, G: 30, B: 45, A: 255}
	restColor    = color.RGBA{R: 76, G: 140, B: 230, A: 255}
	hoverColor   = color.RGBA{R: 96, G: 160, B: 245, A: 255}
	pressedColor = color.RGBA{R: 40, G: 90, B: 180, A: 255}
	disableColor = color.RGBA{R: 90, G: 90, B: 90, A: 255}
)

// Game is an ebiten.Game hosting one Pressable. Each Update advances the
// timer queue by one tick, replays injected or scripted input if any, and
// otherwise polls the real pointer.
type Game struct {
	Button    *pressable.Pressable
	Timers    *pressable.TimerQueue
	Source    *Source
	Host      *Host
	Highlight *pressable.PressHighlight
	// Script, if set, drives the button through its inject queue.
	Script *pressable.ScriptRunner

	Width, Height int
	ShowFPS       bool

	log  []string
	poll func(now time.Duration)

	mu     sync.Mutex
	posted []func()
}

// NewGame creates a game with a button of the given page rectangle, hosted by
// host. A nil host plays no sound.
func NewGame(width, height int, button pressable.Rect, host *Host) *Game {
	if host == nil {
		host = NewHost(nil)
	}
	timers := pressable.NewTimerQueue()
	p := pressable.NewPressable("button", timers, host)
	p.SetLayout(button)

	g := &Game{
		Button:    p,
		Timers:    timers,
		Source:    NewSource(p),
		Host:      host,
		Highlight: pressable.NewPressHighlight(),
		Width:     width,
		Height:    height,
	}
	g.poll = g.Source.Update
	g.Highlight.Attach(p)
	p.OnEvent(g.record)
	return g
}

func (g *Game) record(e pressable.Event) {
	line := fmt.Sprintf("%6dms %-9s (%.0f,%.0f)", e.Timestamp.Milliseconds(), e.Type, e.LocalX, e.LocalY)
	g.log = append(g.log, line)
	if len(g.log) > maxLogLines {
		g.log = g.log[len(g.log)-maxLogLines:]
	}
}

// Log returns the most recent event lines, oldest first.
func (g *Game) Log() []string {
	return g.log
}

func (g *Game) tick() time.Duration {
	return time.Second / time.Duration(ebiten.TPS())
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	dt := g.tick()
	g.step(dt)
	return nil
}

// Post queues fn to run at the start of the next Update. It is safe to call
// from any goroutine and matches the poster signature WatchConfig expects.
func (g *Game) Post(fn func()) bool {
	g.mu.Lock()
	g.posted = append(g.posted, fn)
	g.mu.Unlock()
	return true
}

func (g *Game) runPosted() {
	g.mu.Lock()
	posted := g.posted
	g.posted = nil
	g.mu.Unlock()
	for _, fn := range posted {
		fn()
	}
}

// step advances the game by dt without touching Ebitengine's input state
// unless no injected event is pending.
func (g *Game) step(dt time.Duration) {
	g.runPosted()
	g.Timers.Advance(dt)
	now := g.Timers.Now()
	if g.Script != nil {
		g.Script.Step(g.Button, g.Timers)
	}
	if !g.Button.Update(now) && (g.Script == nil || g.Script.Done()) {
		g.poll(now)
	}
	g.Host.Flush(g.Button)
	g.Highlight.Update(float32(dt.Seconds()))
}

// buttonColor picks the fill for the button's current state.
func (g *Game) buttonColor() color.RGBA {
	c := restColor
	switch {
	case g.Button.Config().Disabled:
		c = disableColor
	case g.Button.Pressed():
		c = pressedColor
	case g.Button.Hovered():
		c = hoverColor
	}
	v := g.Highlight.Value()
	c.R = uint8(float64(c.R) * v)
	c.G = uint8(float64(c.G) * v)
	c.B = uint8(float64(c.B) * v)
	return c
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(clearColor)

	r := g.Button.Measure()
	bounds := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
	if sub, ok := screen.SubImage(bounds).(*ebiten.Image); ok {
		sub.Fill(g.buttonColor())
	}
	ebitenutil.DebugPrintAt(screen, g.Button.Name, int(r.X)+4, int(r.Y)+4)

	y := int(r.Y+r.Height) + 16
	for _, line := range g.log {
		ebitenutil.DebugPrintAt(screen, line, 8, y)
		y += 16
	}
	if g.Host.Focused() {
		ebitenutil.DebugPrintAt(screen, "focused", int(r.X)+4, int(r.Y+r.Height)-20)
	}
	if g.ShowFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
	}
}

// Layout implements ebiten.Game.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.Width, g.Height
}

// RunConfig holds window options for Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// Run opens a window and runs g until it is closed.
func Run(g *Game, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		g.Width, g.Height = cfg.Width, cfg.Height
	}
	g.ShowFPS = cfg.ShowFPS
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(g.Width, g.Height)
	return ebiten.RunGame(g)
}
