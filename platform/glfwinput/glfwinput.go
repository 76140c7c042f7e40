// Package glfwinput feeds the rtscam Input resource from a GLFW window.
package glfwinput

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/rtscam"
)

var glfwKeys = map[int]glfw.Key{
	rtscam.KeyA: glfw.KeyA, rtscam.KeyB: glfw.KeyB, rtscam.KeyC: glfw.KeyC,
	rtscam.KeyD: glfw.KeyD, rtscam.KeyE: glfw.KeyE, rtscam.KeyF: glfw.KeyF,
	rtscam.KeyG: glfw.KeyG, rtscam.KeyH: glfw.KeyH, rtscam.KeyI: glfw.KeyI,
	rtscam.KeyJ: glfw.KeyJ, rtscam.KeyK: glfw.KeyK, rtscam.KeyL: glfw.KeyL,
	rtscam.KeyM: glfw.KeyM, rtscam.KeyN: glfw.KeyN, rtscam.KeyO: glfw.KeyO,
	rtscam.KeyP: glfw.KeyP, rtscam.KeyQ: glfw.KeyQ, rtscam.KeyR: glfw.KeyR,
	rtscam.KeyS: glfw.KeyS, rtscam.KeyT: glfw.KeyT, rtscam.KeyU: glfw.KeyU,
	rtscam.KeyV: glfw.KeyV, rtscam.KeyW: glfw.KeyW, rtscam.KeyX: glfw.KeyX,
	rtscam.KeyY: glfw.KeyY, rtscam.KeyZ: glfw.KeyZ,
	rtscam.Key0: glfw.Key0, rtscam.Key1: glfw.Key1, rtscam.Key2: glfw.Key2,
	rtscam.Key3: glfw.Key3, rtscam.Key4: glfw.Key4, rtscam.Key5: glfw.Key5,
	rtscam.Key6: glfw.Key6, rtscam.Key7: glfw.Key7, rtscam.Key8: glfw.Key8,
	rtscam.Key9: glfw.Key9,
	rtscam.KeySpace:   glfw.KeySpace,
	rtscam.KeyEnter:   glfw.KeyEnter,
	rtscam.KeyEscape:  glfw.KeyEscape,
	rtscam.KeyTab:     glfw.KeyTab,
	rtscam.KeyRight:   glfw.KeyRight,
	rtscam.KeyLeft:    glfw.KeyLeft,
	rtscam.KeyDown:    glfw.KeyDown,
	rtscam.KeyUp:      glfw.KeyUp,
	rtscam.KeyShift:   glfw.KeyLeftShift,
	rtscam.KeyControl: glfw.KeyLeftControl,
	rtscam.KeyLeftAlt: glfw.KeyLeftAlt,
}

var glfwButtons = map[int]glfw.MouseButton{
	rtscam.MouseButtonLeft:   glfw.MouseButtonLeft,
	rtscam.MouseButtonRight:  glfw.MouseButtonRight,
	rtscam.MouseButtonMiddle: glfw.MouseButtonMiddle,
}

// Window is the GLFW window resource.
type Window struct {
	glfw *glfw.Window

	lastX, lastY float64
	hasLast      bool
}

// SetTitle changes the window title.
func (w *Window) SetTitle(title string) {
	w.glfw.SetTitle(title)
}

// Destroy closes the window and shuts GLFW down.
func (w *Window) Destroy() {
	w.glfw.Destroy()
	glfw.Terminate()
}

// WindowModule opens a window and writes its input into rtscam.Input every
// frame. Install InputModule before it. GLFW must stay on the main thread.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (m WindowModule) Install(app *rtscam.App, cmd *rtscam.Commands) {
	input, ok := rtscam.Resource[rtscam.Input](app)
	if !ok {
		panic("glfwinput: InputModule must be installed first")
	}
	if m.Width <= 0 {
		m.Width = 1280
	}
	if m.Height <= 0 {
		m.Height = 720
	}
	if m.Title == "" {
		m.Title = "rtscam"
	}

	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}
	// Nothing renders into the window.
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(m.Width, m.Height, m.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		panic(err)
	}

	w := &Window{glfw: win}
	attach(w, input)
	cmd.AddResources(w)

	app.UseSystem(
		rtscam.System(func(window *Window, input *rtscam.Input) {
			pollSystem(app, window, input)
		}).
			InStage(rtscam.Prelude),
	)
}

func attach(w *Window, input *rtscam.Input) {
	w.glfw.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		input.Scroll = append(input.Scroll, rtscam.ScrollEvent{Unit: rtscam.ScrollLine, Y: float32(yoff)})
	})

	w.glfw.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		if w.hasLast {
			input.MouseMotion = append(input.MouseMotion, mgl32.Vec2{float32(x - w.lastX), float32(y - w.lastY)})
		}
		w.lastX, w.lastY, w.hasLast = x, y, true
		input.MouseX, input.MouseY = x, y
	})

	w.glfw.SetCursorEnterCallback(func(_ *glfw.Window, entered bool) {
		input.CursorInWindow = entered
		if !entered {
			w.hasLast = false
		}
	})

	w.glfw.SetSizeCallback(func(_ *glfw.Window, width, height int) {
		input.WindowWidth, input.WindowHeight = width, height
	})

	input.WindowWidth, input.WindowHeight = w.glfw.GetSize()
}

func pollSystem(app *rtscam.App, w *Window, input *rtscam.Input) {
	glfw.PollEvents()
	if w.glfw.ShouldClose() {
		app.Stop()
		return
	}

	for key, gk := range glfwKeys {
		setState(input, key, w.glfw.GetKey(gk) == glfw.Press)
	}
	for key, gb := range glfwButtons {
		setState(input, key, w.glfw.GetMouseButton(gb) == glfw.Press)
	}
}

func setState(input *rtscam.Input, key int, down bool) {
	if down {
		input.Press(key)
	} else {
		input.Release(key)
	}
}
