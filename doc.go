// Package pressable is a press and hover gesture engine for pressable widgets.
//
// It turns raw pointer callbacks (down, move, up, cancel) and hover callbacks
// into an ordered stream of semantic events: pressIn, pressOut, press,
// longPress, pressMove, hoverIn and hoverOut. Hit slop, press retention, a
// press-in debounce delay and a long-press delay are all configurable, and
// timers run on the same logical thread as pointer events.
//
// # Quick start
//
// Create a [Pressable] with a [Scheduler] and an optional [Host], give it a
// layout and register callbacks:
//
//	timers := pressable.NewTimerQueue()
//	button := pressable.NewPressable("ok", timers, nil)
//	button.SetLayout(pressable.Rect{X: 40, Y: 40, Width: 120, Height: 48})
//	button.OnPress(func(e pressable.Event) { fmt.Println("pressed at", e.Timestamp) })
//
//	button.HandlePointer(pressable.PointerDown, pressable.At(10, 10, 0))
//	button.HandlePointer(pressable.PointerUp, pressable.At(10, 10, 80*time.Millisecond))
//
// Frame-based hosts advance the [TimerQueue] once per tick. Event-driven
// hosts use a [Loop], which runs pointer handling and timer callbacks on one
// goroutine.
//
// For an Ebitengine window, see the ebitenhost package:
//
//	game := ebitenhost.NewGame(640, 480, rect, ebitenhost.NewHost(ebitenhost.NewClickSound()))
//	ebitenhost.Run(game, ebitenhost.RunConfig{Title: "Button", Width: 640, Height: 480})
//
// # Gesture
//
// [Gesture] is the state machine itself. It can be used without a
// [Pressable] by passing any [EventSink]. A session moves from
// [PhaseIdle] to [PhasePressPending] (only with a press-in delay) to
// [PhasePressed] and back; hover is tracked independently.
//
// Configuration arrives as partial [ConfigUpdate] values, from code or from
// TOML, JSON and YAML files through [LoadConfigFile] and [WatchConfig].
//
// # Testing
//
// Scripts replay pointer sequences deterministically on a virtual clock; see
// [LoadScript], [Script.Run] and [ScriptRunner]. The Inject methods on
// [Pressable] queue synthetic events that [Pressable.Update] delivers one per
// frame.
//
// Events can also be published into a [Donburi] world via the ecs package,
// and pressed-state highlights are animated with [gween].
//
// [Donburi]: https://github.com/yohamta/donburi
// [gween]: https://github.com/tanema/gween
package pressable
