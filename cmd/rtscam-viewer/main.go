package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/rtscam"
	"github.com/gekko3d/rtscam/platform/glfwinput"
)

// unit is a marker that walks in a circle so the lock can be tried out.
type unit struct {
	Phase float32
}

type viewerState struct {
	camera   rtscam.EntityId
	unit     rtscam.EntityId
	locked   bool
	bookmark rtscam.BookmarkId
	title    time.Time
}

func main() {
	config := flag.String("config", "", "camera config YAML")
	watch := flag.Bool("watch", false, "reload the config when it changes")
	debug := flag.Bool("debug", false, "enable debug logging and gizmos")
	flag.Parse()

	app := rtscam.NewAppBuilder().
		UseModule(rtscam.LoggingModule{Prefix: "rtscam", Debug: *debug}).
		UseModule(rtscam.TimeModule{}).
		UseModule(rtscam.InputModule{}).
		UseModule(glfwinput.WindowModule{Title: "rtscam viewer"}).
		UseModule(rtscam.HierarchyModule{}).
		UseModule(rtscam.RtsCameraModule{
			ConfigPath:  *config,
			WatchConfig: *watch,
			DebugGizmos: *debug,
		}).
		UseModule(viewerModule{}).
		Build()

	window, _ := rtscam.Resource[glfwinput.Window](app)
	defer window.Destroy()
	if settings, ok := rtscam.Resource[rtscam.RtsCameraSettings](app); ok {
		defer settings.Close()
	}

	app.Run()
}

type viewerModule struct{}

func (viewerModule) Install(app *rtscam.App, cmd *rtscam.Commands) {
	state := &viewerState{}
	spawnScene(cmd, state)
	cmd.AddResources(state)

	app.UseSystem(
		rtscam.System(unitSystem).
			InStage(rtscam.PreUpdate),
	)
	app.UseSystem(
		rtscam.System(viewerControlsSystem).
			InStage(rtscam.PreUpdate),
	)
	app.UseSystem(
		rtscam.System(titleSystem).
			InStage(rtscam.PostUpdate),
	)
}

func spawnScene(cmd *rtscam.Commands, state *viewerState) {
	floor := rtscam.NewTransform(mgl32.Vec3{0, -0.5, 0})
	cmd.AddEntity(floor, rtscam.RtsCameraGround{Shape: rtscam.GroundBox, HalfExtents: mgl32.Vec3{50, 0.5, 50}})

	for i := 0; i < 8; i++ {
		angle := float64(i) / 8 * 2 * math.Pi
		pos := mgl32.Vec3{float32(math.Cos(angle)) * 12, 0, float32(math.Sin(angle)) * 12}
		cmd.AddEntity(rtscam.NewTransform(pos), rtscam.RtsCameraGround{Shape: rtscam.GroundSphere, Radius: 2})
	}

	state.camera = cmd.AddEntity(rtscam.NewTransform(mgl32.Vec3{0, 5, 0}), rtscam.NewRtsCamera())
	cmd.AddEntity(
		rtscam.NewLocalTransform(mgl32.Vec3{}),
		rtscam.NewTransform(mgl32.Vec3{}),
		rtscam.Parent{Entity: state.camera},
		rtscam.RtsCameraEye{},
	)

	state.unit = cmd.AddEntity(rtscam.NewTransform(mgl32.Vec3{6, 0, 0}), unit{})
}

func unitSystem(cmd *rtscam.Commands, t *rtscam.Time) {
	rtscam.MakeQuery2[unit, rtscam.TransformComponent](cmd).Map(func(eid rtscam.EntityId, u *unit, tr *rtscam.TransformComponent) bool {
		u.Phase += t.Seconds() * 0.3
		tr.Position = mgl32.Vec3{
			float32(math.Cos(float64(u.Phase))) * 6,
			0,
			float32(math.Sin(float64(u.Phase))) * 6,
		}
		return true
	})
}

// viewerControlsSystem: L toggles the lock, B saves a bookmark, R recalls it.
func viewerControlsSystem(cmd *rtscam.Commands, input *rtscam.Input, state *viewerState, bookmarks *rtscam.CameraBookmarks) {
	if input.IsJustPressed(rtscam.KeyL) {
		if state.locked {
			cmd.RemoveComponents(state.unit, rtscam.RtsCameraLock{})
		} else {
			cmd.AddComponents(state.unit, rtscam.RtsCameraLock{})
		}
		state.locked = !state.locked
	}

	cam, ok := rtscam.GetComponent[rtscam.RtsCamera](cmd.Ecs(), state.camera)
	if !ok {
		return
	}
	if input.IsJustPressed(rtscam.KeyB) {
		state.bookmark = bookmarks.Save("viewer", cam)
		cmd.Logger().Infof("saved bookmark %s", state.bookmark)
	}
	if input.IsJustPressed(rtscam.KeyR) && state.bookmark != "" {
		if err := bookmarks.Recall(state.bookmark, cam); err != nil {
			cmd.Logger().Warnf("%v", err)
		}
	}
	if input.IsJustPressed(rtscam.KeyEscape) {
		if err := rtscam.JumpRtsCamera(cmd, state.camera, mgl32.Vec3{0, cam.Target.Y(), 0}); err != nil {
			cmd.Logger().Warnf("%v", err)
		}
	}
}

func titleSystem(cmd *rtscam.Commands, window *glfwinput.Window, state *viewerState) {
	if time.Since(state.title) < 250*time.Millisecond {
		return
	}
	state.title = time.Now()

	cam, ok := rtscam.GetComponent[rtscam.RtsCamera](cmd.Ecs(), state.camera)
	if !ok {
		return
	}
	window.SetTitle(fmt.Sprintf("rtscam viewer  target=(%.2f, %.2f, %.2f) zoom=%.2f height=%.2f locked=%v",
		cam.Target.X(), cam.Target.Y(), cam.Target.Z(), cam.Zoom, cam.Height(), state.locked))
}
