package camrig

import (
	"fmt"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
)

// WindowState is the shared GLFW window. Rendering belongs to another
// module; this one only owns the window and its input.
type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

// WindowModule creates the window resource. Install is idempotent: an
// existing WindowState is reused.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (m WindowModule) Install(app *App, cmd *Commands) {
	if _, ok := Resource[WindowState](app); ok {
		return
	}

	width, height, title := m.Width, m.Height, m.Title
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	if title == "" {
		title = "camrig"
	}

	ws, err := createWindowState(width, height, title)
	if err != nil {
		panic(err)
	}
	app.addResources(ws)
	app.UseSystem(
		System(windowCloseSystem).
			InStage(Finale),
	)
}

func createWindowState(width, height int, title string) (*WindowState, error) {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  width,
		WindowHeight: height,
		windowTitle:  title,
	}, nil
}

func windowCloseSystem(ws *WindowState, cmd *Commands) {
	ws.WindowWidth, ws.WindowHeight = ws.windowGlfw.GetSize()
	if ws.windowGlfw.ShouldClose() {
		cmd.Quit()
	}
}

// WindowInputModule feeds Input from the window created by WindowModule,
// which must be installed first.
type WindowInputModule struct{}

func (WindowInputModule) Install(app *App, cmd *Commands) {
	ws, ok := Resource[WindowState](app)
	if !ok {
		panic("WindowInputModule needs WindowModule installed first")
	}
	InputModule{Source: NewGlfwInputSource(ws)}.Install(app, cmd)
}

func (ws *WindowState) Destroy() {
	ws.windowGlfw.Destroy()
	glfw.Terminate()
}

// GlfwInputSource polls keyboard, mouse buttons and cursor motion from a
// GLFW window.
type GlfwInputSource struct {
	window       *glfw.Window
	motion       []mgl32.Vec2
	lastX, lastY float64
	primed       bool
}

func NewGlfwInputSource(ws *WindowState) *GlfwInputSource {
	src := &GlfwInputSource{window: ws.windowGlfw}
	ws.windowGlfw.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		if src.primed {
			src.motion = append(src.motion, mgl32.Vec2{float32(x - src.lastX), float32(y - src.lastY)})
		}
		src.lastX, src.lastY = x, y
		src.primed = true
	})
	return src
}

func (src *GlfwInputSource) Poll(snap *InputSnapshot) {
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		snap.Down[key] = src.window.GetKey(glfwKey) == glfw.Press
	}
	for key, glfwBtn := range mouseToGlfw {
		snap.Down[key] = src.window.GetMouseButton(glfwBtn) == glfw.Press
	}

	snap.CursorX, snap.CursorY = src.window.GetCursorPos()
	snap.Motion = append(snap.Motion, src.motion...)
	src.motion = src.motion[:0]
}

var mouseToGlfw = map[Key]glfw.MouseButton{
	MouseButtonLeft:   glfw.MouseButtonLeft,
	MouseButtonRight:  glfw.MouseButtonRight,
	MouseButtonMiddle: glfw.MouseButtonMiddle,
}

var keyToGlfw = map[Key]glfw.Key{
	KeyA:         glfw.KeyA,
	KeyB:         glfw.KeyB,
	KeyC:         glfw.KeyC,
	KeyD:         glfw.KeyD,
	KeyE:         glfw.KeyE,
	KeyF:         glfw.KeyF,
	KeyG:         glfw.KeyG,
	KeyH:         glfw.KeyH,
	KeyI:         glfw.KeyI,
	KeyJ:         glfw.KeyJ,
	KeyK:         glfw.KeyK,
	KeyL:         glfw.KeyL,
	KeyM:         glfw.KeyM,
	KeyN:         glfw.KeyN,
	KeyO:         glfw.KeyO,
	KeyP:         glfw.KeyP,
	KeyQ:         glfw.KeyQ,
	KeyR:         glfw.KeyR,
	KeyS:         glfw.KeyS,
	KeyT:         glfw.KeyT,
	KeyU:         glfw.KeyU,
	KeyV:         glfw.KeyV,
	KeyW:         glfw.KeyW,
	KeyX:         glfw.KeyX,
	KeyY:         glfw.KeyY,
	KeyZ:         glfw.KeyZ,
	Key0:         glfw.Key0,
	Key1:         glfw.Key1,
	Key2:         glfw.Key2,
	Key3:         glfw.Key3,
	Key4:         glfw.Key4,
	Key5:         glfw.Key5,
	Key6:         glfw.Key6,
	Key7:         glfw.Key7,
	Key8:         glfw.Key8,
	Key9:         glfw.Key9,
	KeySpace:     glfw.KeySpace,
	KeyEnter:     glfw.KeyEnter,
	KeyEscape:    glfw.KeyEscape,
	KeyTab:       glfw.KeyTab,
	KeyBackspace: glfw.KeyBackspace,
	KeyInsert:    glfw.KeyInsert,
	KeyDelete:    glfw.KeyDelete,
	KeyRight:     glfw.KeyRight,
	KeyLeft:      glfw.KeyLeft,
	KeyDown:      glfw.KeyDown,
	KeyUp:        glfw.KeyUp,
	KeyF1:        glfw.KeyF1,
	KeyF2:        glfw.KeyF2,
	KeyF3:        glfw.KeyF3,
	KeyF4:        glfw.KeyF4,
	KeyF5:        glfw.KeyF5,
	KeyF6:        glfw.KeyF6,
	KeyF7:        glfw.KeyF7,
	KeyF8:        glfw.KeyF8,
	KeyF9:        glfw.KeyF9,
	KeyF10:       glfw.KeyF10,
	KeyF11:       glfw.KeyF11,
	KeyF12:       glfw.KeyF12,
	KeyMinus:     glfw.KeyMinus,
	KeyEqual:     glfw.KeyEqual,
	KeyKPPlus:    glfw.KeyKPAdd,
	KeyKPMinus:   glfw.KeyKPSubtract,
	KeyShift:     glfw.KeyLeftShift,
	KeyControl:   glfw.KeyLeftControl,
	KeyLeftAlt:   glfw.KeyLeftAlt,
}
