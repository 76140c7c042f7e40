package rtscam

import (
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	Key0
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
	KeyShift
	KeyControl
	KeyLeftAlt
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	keyCount
)

var keyNames = map[string]int{
	"a": KeyA, "b": KeyB, "c": KeyC, "d": KeyD, "e": KeyE, "f": KeyF,
	"g": KeyG, "h": KeyH, "i": KeyI, "j": KeyJ, "k": KeyK, "l": KeyL,
	"m": KeyM, "n": KeyN, "o": KeyO, "p": KeyP, "q": KeyQ, "r": KeyR,
	"s": KeyS, "t": KeyT, "u": KeyU, "v": KeyV, "w": KeyW, "x": KeyX,
	"y": KeyY, "z": KeyZ,
	"0": Key0, "1": Key1, "2": Key2, "3": Key3, "4": Key4,
	"5": Key5, "6": Key6, "7": Key7, "8": Key8, "9": Key9,
	"space": KeySpace, "enter": KeyEnter, "escape": KeyEscape, "tab": KeyTab,
	"right": KeyRight, "left": KeyLeft, "down": KeyDown, "up": KeyUp,
	"shift": KeyShift, "control": KeyControl, "alt": KeyLeftAlt,
	"mouseleft": MouseButtonLeft, "mouseright": MouseButtonRight, "mousemiddle": MouseButtonMiddle,
}

// KeyByName resolves a binding name such as "W", "Up" or "MouseMiddle".
func KeyByName(name string) (int, bool) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

type ScrollUnit int

const (
	// ScrollLine events come from notched wheels and count whole lines.
	ScrollLine ScrollUnit = iota
	// ScrollPixel events come from touchpads and count pixels.
	ScrollPixel
)

type ScrollEvent struct {
	Unit ScrollUnit
	Y    float32
}

// pixelScrollScale brings pixel scrolling to roughly the feel of one line.
const pixelScrollScale = 0.001

// Input is the frame's input state. Hosts write it between frames; event
// lists are cleared at the end of every frame so every reader in a frame sees
// the same events.
type Input struct {
	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	MouseX, MouseY float64
	CursorInWindow bool

	MouseMotion []mgl32.Vec2
	Scroll      []ScrollEvent

	WindowWidth, WindowHeight int
}

func (in *Input) Press(key int) {
	if key < 0 || key >= int(keyCount) {
		return
	}
	if !in.Pressed[key] {
		in.JustPressed[key] = true
	}
	in.Pressed[key] = true
}

func (in *Input) Release(key int) {
	if key < 0 || key >= int(keyCount) {
		return
	}
	if in.Pressed[key] {
		in.JustReleased[key] = true
	}
	in.Pressed[key] = false
}

func (in *Input) IsPressed(key int) bool {
	return key >= 0 && key < int(keyCount) && in.Pressed[key]
}

func (in *Input) IsJustPressed(key int) bool {
	return key >= 0 && key < int(keyCount) && in.JustPressed[key]
}

// Cursor returns the cursor position in window pixels, origin top-left.
func (in *Input) Cursor() (x, y float32, ok bool) {
	if !in.CursorInWindow {
		return 0, 0, false
	}
	return float32(in.MouseX), float32(in.MouseY), true
}

// ScrollDelta sums this frame's scroll events, pixel events scaled to lines.
func (in *Input) ScrollDelta() float32 {
	var total float32
	for _, ev := range in.Scroll {
		switch ev.Unit {
		case ScrollPixel:
			total += ev.Y * pixelScrollScale
		default:
			total += ev.Y
		}
	}
	return total
}

// MotionDelta sums this frame's mouse motion events.
func (in *Input) MotionDelta() mgl32.Vec2 {
	var total mgl32.Vec2
	for _, m := range in.MouseMotion {
		total = total.Add(m)
	}
	return total
}

// EndFrame clears per-frame state.
func (in *Input) EndFrame() {
	in.JustPressed = [keyCount]bool{}
	in.JustReleased = [keyCount]bool{}
	in.MouseMotion = in.MouseMotion[:0]
	in.Scroll = in.Scroll[:0]
}

type InputModule struct{}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputEndFrameSystem).
			InStage(Finale),
	)
}

func inputEndFrameSystem(input *Input) {
	input.EndFrame()
}
