// Package xr runs immersive VR and AR sessions: it places a camera rig in the scene,
// hands the frame loop to the headset while a session runs and moves the rig while a
// controller trigger is held.
package xr

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
)

// Kind is the type of immersive session.
type Kind int

const (
	VR Kind = iota
	AR
)

// Mode returns the platform mode string of the kind.
func (k Kind) Mode() string {
	if k == AR {
		return "immersive-ar"
	}
	return "immersive-vr"
}

func (k Kind) String() string {
	if k == AR {
		return "AR"
	}
	return "VR"
}

// State is the lifecycle state of the Manager.
type State int

const (
	Inactive State = iota
	Starting
	Active
	Ending
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Active:
		return "active"
	case Ending:
		return "ending"
	}
	return "inactive"
}

// Rig node names.
const (
	RigName       = "XR_RIG"
	RigCameraName = "XR_CAMERA"
	PointerName   = "XR_POINTER"
)

// ControllerName returns the rig node name of a controller.
func ControllerName(index int) string {
	return fmt.Sprintf("XR_CONTROLLER_%d", index)
}

// Locomotion moves the rig LocomotionStep units along the view direction every
// LocomotionInterval while a trigger is held.
const (
	LocomotionStep     float32 = 30
	LocomotionInterval         = 20 * time.Millisecond
)

var (
	// ErrUnsupportedSession is returned when the platform cannot run the requested kind.
	ErrUnsupportedSession = errors.New("immersive session not supported")

	// ErrSessionActive is returned when a session is requested while another one runs.
	ErrSessionActive = errors.New("immersive session already active")
)

// manager is the implementation of the Manager interface.
type manager struct {
	mu *sync.Mutex

	platform Platform
	scenes   scene.Manager
	controls camera.Controls

	loopSwitch func(immersive bool)
	dispatch   func(func())
	verbose    bool

	state    State
	kind     Kind
	strategy strategy
	session  Session
	source   camera.Camera
	camera   camera.Camera
	rig      *scene.Object
	ctrls    []*scene.Object
	onEnded  func()
	endOnce  *sync.Once

	pressed map[int]bool
	elapsed time.Duration
}

// Manager owns the immersive session lifecycle:
// Inactive -> Starting -> Active -> Ending -> Inactive.
type Manager interface {
	// Supported reports whether the platform can run sessions of the kind.
	//
	// Parameters:
	//   - kind: VR or AR
	//
	// Returns:
	//   - bool: true when supported
	Supported(kind Kind) bool

	// RequestSession starts a session. On success the rig holding a copy of the active
	// camera is added to the scene, the frame loop is switched to the immersive loop and
	// onStarted fires.
	//
	// Parameters:
	//   - kind: VR or AR
	//   - onStarted: fired once the session is active, may be nil
	//   - onEnded: fired exactly once when the session ends, may be nil
	//
	// Returns:
	//   - error: ErrUnsupportedSession or ErrSessionActive with the state unchanged, or the
	//     platform error with the state back to Inactive
	RequestSession(kind Kind, onStarted, onEnded func()) error

	// End stops the running session. Controllers are removed before the rig is detached
	// and the standard frame loop is restored. Ending twice is a no-op.
	End()

	// State returns the lifecycle state.
	//
	// Returns:
	//   - State: the state
	State() State

	// Kind returns the kind of the running or last session.
	//
	// Returns:
	//   - Kind: VR or AR
	Kind() Kind

	// Rig returns the camera rig while a session runs.
	//
	// Returns:
	//   - *scene.Object: the rig, nil when inactive
	Rig() *scene.Object

	// Camera returns the camera rendered by the headset while a session runs.
	//
	// Returns:
	//   - camera.Camera: the rig camera, nil when inactive
	Camera() camera.Camera

	// Select records a controller trigger change. Holding any trigger moves the rig on
	// Update.
	//
	// Parameters:
	//   - controller: the controller index
	//   - pressed: whether the trigger is held
	Select(controller int, pressed bool)

	// Update advances locomotion. Called once per immersive frame.
	//
	// Parameters:
	//   - dt: time since the previous frame
	Update(dt time.Duration)
}

var _ Manager = &manager{}

// NewManager creates an immersive session manager.
//
// Parameters:
//   - platform: the headset runtime, nil when none is linked in
//   - scenes: the scene the rig is added to
//   - controls: the controls whose active camera the rig copies
//   - options: a variadic list of ManagerBuilderOption functions
//
// Returns:
//   - Manager: the manager
func NewManager(platform Platform, scenes scene.Manager, controls camera.Controls, options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:         &sync.Mutex{},
		platform:   platform,
		scenes:     scenes,
		controls:   controls,
		loopSwitch: func(bool) {},
		dispatch:   func(fn func()) { fn() },
		pressed:    make(map[int]bool),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *manager) Supported(kind Kind) bool {
	return m.platform != nil && m.platform.Supports(kind.Mode())
}

func (m *manager) RequestSession(kind Kind, onStarted, onEnded func()) error {
	m.mu.Lock()
	if m.state != Inactive {
		m.mu.Unlock()
		return ErrSessionActive
	}
	if !m.Supported(kind) {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnsupportedSession, kind)
	}
	m.state = Starting
	m.kind = kind
	m.strategy = newStrategy(kind)
	m.mu.Unlock()

	session, err := m.platform.RequestSession(m.strategy.init())
	if err != nil {
		m.mu.Lock()
		m.state = Inactive
		m.strategy = nil
		m.mu.Unlock()
		return fmt.Errorf("failed to start %s session: %w", kind, err)
	}

	m.mu.Lock()
	source := m.controls.Active()
	m.strategy.setup(m.scenes, source)

	xrCamera := source.Clone()
	rig := scene.NewGroup(RigName)
	rig.Position = m.strategy.rigPosition(source)
	rig.Add(scene.NewObject(scene.TypeCamera, scene.WithName(RigCameraName)))
	ctrls := m.strategy.controllers()
	rig.Add(ctrls...)
	m.scenes.Root().Add(rig)

	m.session = session
	m.source = source
	m.camera = xrCamera
	m.rig = rig
	m.ctrls = ctrls
	m.onEnded = onEnded
	m.endOnce = &sync.Once{}
	clear(m.pressed)
	m.elapsed = 0
	m.state = Active
	once := m.endOnce
	m.mu.Unlock()

	session.OnEnd(func() {
		m.dispatch(func() { m.finish(once) })
	})
	session.OnSelect(func(controller int, pressed bool) {
		m.Select(controller, pressed)
	})
	m.loopSwitch(true)
	m.debugf("%s session started", kind)
	if onStarted != nil {
		onStarted()
	}
	return nil
}

func (m *manager) End() {
	m.mu.Lock()
	if m.state != Active {
		m.mu.Unlock()
		return
	}
	session := m.session
	once := m.endOnce
	m.mu.Unlock()

	session.End()
	m.finish(once)
}

// finish tears the rig down. once guards against the platform reporting the end of a
// session after End already finished it, or after a newer session started.
func (m *manager) finish(once *sync.Once) {
	once.Do(func() {
		m.mu.Lock()
		if m.endOnce != once {
			m.mu.Unlock()
			return
		}
		m.state = Ending
		for _, ctrl := range m.ctrls {
			m.rig.Remove(ctrl)
		}
		m.rig.RemoveFromParent()
		m.strategy.teardown(m.scenes, m.source)
		onEnded := m.onEnded
		kind := m.kind

		m.session = nil
		m.source = nil
		m.camera = nil
		m.rig = nil
		m.ctrls = nil
		m.onEnded = nil
		m.endOnce = nil
		clear(m.pressed)
		m.elapsed = 0
		m.state = Inactive
		m.mu.Unlock()

		m.loopSwitch(false)
		m.debugf("%s session ended", kind)
		if onEnded != nil {
			onEnded()
		}
	})
}

func (m *manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *manager) Kind() Kind {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.kind
}

func (m *manager) Rig() *scene.Object {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rig
}

func (m *manager) Camera() camera.Camera {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.camera
}

func (m *manager) Select(controller int, pressed bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Active {
		return
	}
	if pressed {
		m.pressed[controller] = true
		return
	}
	delete(m.pressed, controller)
	if len(m.pressed) == 0 {
		m.elapsed = 0
	}
}

func (m *manager) Update(dt time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Active || len(m.pressed) == 0 {
		return
	}
	m.elapsed += dt
	for m.elapsed >= LocomotionInterval {
		m.elapsed -= LocomotionInterval
		m.step()
	}
}

// step moves the rig and the headset camera one step along the camera's view direction.
// Caller must hold the mutex.
func (m *manager) step() {
	ctrl := m.camera.Controller()
	if ctrl == nil {
		return
	}
	dir := ctrl.Target().Sub(ctrl.Position())
	if dir.Len() == 0 {
		return
	}
	delta := dir.Normalize().Mul(LocomotionStep)
	m.rig.Position = m.rig.Position.Add(delta)
	ctrl.SetPosition(ctrl.Position().Add(delta))
	ctrl.SetTarget(ctrl.Target().Add(delta))
}

func (m *manager) debugf(format string, args ...any) {
	if m.verbose {
		log.Printf("xr: "+format, args...)
	}
}
