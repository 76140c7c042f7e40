package rtscam

// RtsCameraModule drives every RtsCamera once per frame. It needs the Time
// and Input resources, so install TimeModule and InputModule first.
type RtsCameraModule struct {
	// Ground overrides the built-in GroundIndex.
	Ground GroundCaster
	// CellSize and MaxDistance tune the built-in GroundIndex. Zero picks
	// the defaults of 2 and 1000 world units.
	CellSize    float32
	MaxDistance float32
	// ConfigPath, when set, is applied to every camera as it spawns.
	ConfigPath string
	// WatchConfig reloads ConfigPath onto all cameras when the file changes.
	WatchConfig bool
	DebugGizmos bool
}

// RtsCameraSettings is the module's shared state.
type RtsCameraSettings struct {
	Ground GroundCaster
	// Config is nil when cameras keep the values they were spawned with.
	Config     *RtsCameraConfig
	ConfigPath string

	watcher   *ConfigWatcher
	lockCount int
}

// Close stops the config watcher, if any.
func (s *RtsCameraSettings) Close() error {
	if s.watcher == nil {
		return nil
	}
	return s.watcher.Close()
}

func (mod RtsCameraModule) Install(app *App, cmd *Commands) {
	log := cameraLogger(app.Logger())

	gizmos, ok := Resource[DebugGizmos](app)
	if !ok {
		gizmos = &DebugGizmos{}
		cmd.AddResources(gizmos)
		app.UseSystem(
			System(debugGizmosClearSystem).
				InStage(Prelude),
		)
	}
	gizmos.Enabled = gizmos.Enabled || mod.DebugGizmos

	settings := &RtsCameraSettings{
		Ground:     mod.Ground,
		ConfigPath: mod.ConfigPath,
	}
	if settings.Ground == nil {
		index := NewGroundIndex(mod.CellSize, mod.MaxDistance)
		index.Gizmos = gizmos
		cmd.AddResources(index)
		app.UseSystem(
			System(UpdateGroundIndexSystem).
				InStage(PreUpdate),
		)
		settings.Ground = index
	}

	if mod.ConfigPath != "" {
		cfg, err := LoadRtsCameraConfig(mod.ConfigPath)
		if err != nil {
			log.Errorf("%v", err)
		} else {
			settings.Config = &cfg
		}
		if mod.WatchConfig {
			watcher, err := NewConfigWatcher(mod.ConfigPath)
			if err != nil {
				log.Errorf("watch %s: %v", mod.ConfigPath, err)
			} else {
				settings.watcher = watcher
			}
		}
	}

	cmd.AddResources(settings, NewCameraBookmarks())

	app.UseSystem(
		System(RtsCameraConfigSystem).
			InStage(PreUpdate),
	)
	app.UseSystem(
		System(RtsCameraSystem).
			InStage(Update),
	)
}

// RtsCameraConfigSystem reloads the config file when it changed and applies
// the config to cameras that have not run yet, or to all cameras after a
// reload.
func RtsCameraConfigSystem(cmd *Commands, settings *RtsCameraSettings) {
	log := cameraLogger(cmd.Logger())
	reloaded := false
	if settings.watcher != nil {
		changed, err := settings.watcher.Poll()
		if err != nil {
			log.Warnf("watching %s: %v", settings.ConfigPath, err)
		}
		if changed {
			cfg, err := LoadRtsCameraConfig(settings.ConfigPath)
			if err != nil {
				// Keep the last good config.
				log.Errorf("reload: %v", err)
			} else {
				settings.Config = &cfg
				reloaded = true
				log.Infof("reloaded %s", settings.ConfigPath)
			}
		}
	}
	if settings.Config == nil {
		return
	}

	cfg := *settings.Config
	MakeQuery1[RtsCamera](cmd).Map(func(eid EntityId, cam *RtsCamera) bool {
		if reloaded || !cam.Initialized {
			if err := cfg.Apply(cam); err != nil {
				log.Errorf("camera %d: %v", eid, err)
			}
		}
		return true
	})
}

func cameraLogger(l Logger) Logger {
	return WithPrefix(l, "rts camera")
}

// RtsCameraSystem runs UpdateRtsCamera for every camera, in entity order.
func RtsCameraSystem(cmd *Commands, settings *RtsCameraSettings, input *Input, t *Time, gizmos *DebugGizmos) {
	log := cameraLogger(cmd.Logger())
	var locks []LockTarget
	MakeQuery2[RtsCameraLock, TransformComponent](cmd).Map(func(eid EntityId, _ *RtsCameraLock, tr *TransformComponent) bool {
		locks = append(locks, LockTarget{Entity: eid, Position: tr.Position})
		return true
	})
	if len(locks) != settings.lockCount {
		if len(locks) > 1 {
			log.Warnf("%d lock targets, each camera follows the nearest", len(locks))
		}
		settings.lockCount = len(locks)
	}

	frame := RtsCameraFrame{
		Input:  input,
		Dt:     t.Seconds(),
		Ground: settings.Ground,
		Locks:  locks,
	}
	scene := newEcsScene(cmd)

	MakeQuery2[RtsCamera, TransformComponent](cmd).Map(func(eid EntityId, cam *RtsCamera, tr *TransformComponent) bool {
		wasInitialized := cam.Initialized
		UpdateRtsCamera(scene, frame, eid, cam)
		if !wasInitialized {
			log.Debugf("camera %d: initialized at %v", eid, cam.Target)
		}

		gizmos.Add(NewGizmoSphere(cam.Target, 0.1, ColorTarget))
		gizmos.Add(NewGizmoLine(tr.Position, cam.Target, ColorTargetLine))
		return true
	})
}
