// Package animation choreographs camera moves and event data reveals on top of the tween
// scheduler.
package animation

import (
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/phoenix-go/engine/camera"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/Carmen-Shannon/phoenix-go/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// Flythrough choreography parameters.
const (
	flythroughApproachMs   = 1000
	flythroughRadius       = 500
	flythroughSteps        = 24
	flythroughAngle        = 3 * math.Pi
	flythroughReturnDelay  = 500
	defaultPresetStepMs    = 2000
	defaultClipConstant    = 11000
	defaultCollisionMs     = 1500
	collisionGraceDelayMs  = 100
	defaultParticleSize    = 10
	collisionParticleSize  = 30
	defaultParticleOffsetZ = 5000
)

// FlythroughDuration returns the total length in milliseconds of AnimateThroughEvent for a
// given step duration.
func FlythroughDuration(durationMs float32) float32 {
	return flythroughApproachMs + flythroughReturnDelay + 8*durationMs
}

// PresetStep is one camera move of a Preset. A zero Duration uses two seconds and a nil
// Easing is linear.
type PresetStep struct {
	Position mgl32.Vec3
	Duration float32
	Easing   ease.TweenFunc
}

// Preset is a named camera path, optionally combined with a collision and reveal of the
// event that starts AnimateEventAfter milliseconds into the path.
type Preset struct {
	Name              string
	Positions         []PresetStep
	AnimateEventAfter float32
	CollisionDuration float32
}

// RevealFunc is the signature shared by the reveal animations so they can follow a
// particle collision.
type RevealFunc func(durationMs float32, onEnd, onStart func())

// manager is the implementation of the Manager interface.
type manager struct {
	mu *sync.Mutex

	scenes    scene.Manager
	controls  camera.Controls
	scheduler tween.Scheduler

	clipConstant float32
	verbose      bool

	eventTimeNs   float64
	currentTimeNs float64
}

// Manager schedules the display's animations. Every operation only queues tweens on the
// scheduler; nothing moves until the frame loop advances it.
type Manager interface {
	// CameraTween returns an unscheduled tween moving the active camera to position.
	//
	// Parameters:
	//   - position: the destination
	//   - durationMs: the move duration
	//   - easing: the easing curve, nil for linear
	//
	// Returns:
	//   - *tween.Tween: the tween
	CameraTween(position mgl32.Vec3, durationMs float32, easing ease.TweenFunc) *tween.Tween

	// AnimateCameraTransform moves the active camera and its target together.
	//
	// Parameters:
	//   - position: the camera destination
	//   - target: the target destination
	//   - durationMs: the move duration
	//   - onEnd: called once when the move completes, may be nil
	AnimateCameraTransform(position, target mgl32.Vec3, durationMs float32, onEnd func())

	// AnimateThroughEvent flies the camera to startPos, along the beam axis, around the event
	// on a circle of radius 500, out to the mirrored position and back to startPos.
	// The full flight lasts FlythroughDuration(durationMs).
	//
	// Parameters:
	//   - startPos: the start and end position
	//   - durationMs: the base step duration
	//   - onEnd: called exactly once when the camera is back at startPos, may be nil
	AnimateThroughEvent(startPos mgl32.Vec3, durationMs float32, onEnd func())

	// AnimateEvent reveals the event data. Tracks and line hits grow along their draw
	// range, hit clouds fill in as an expanding sphere reaches each point, and every other
	// object scales up from near zero to its authored scale.
	//
	// Parameters:
	//   - durationMs: the reveal duration
	//   - onEnd: called when the reveal completes, may be nil
	//   - onStart: called when the first tween starts, may be nil
	AnimateEvent(durationMs float32, onEnd, onStart func())

	// AnimateEventWithClipping reveals the event data through a growing polyhedral
	// clipping volume centred on the origin.
	AnimateEventWithClipping(durationMs float32, onEnd, onStart func())

	// CollideParticles sends two markers from ±z towards the origin while the event data
	// is hidden. On arrival the markers are removed, onEnd fires and the event data is shown
	// again after a short grace delay.
	//
	// Parameters:
	//   - durationMs: the travel duration
	//   - onEnd: called on arrival, may be nil
	//   - options: marker size, distance and color
	CollideParticles(durationMs float32, onEnd func(), options ...CollisionOption)

	// AnimateWithCollision collides two particles in the color of the first track and runs
	// reveal once they arrive.
	AnimateWithCollision(reveal RevealFunc, durationMs float32, onEnd func())

	// AnimateEventWithCollision is AnimateWithCollision with AnimateEvent.
	AnimateEventWithCollision(durationMs float32, onEnd func())

	// AnimateClippingWithCollision is AnimateWithCollision with AnimateEventWithClipping.
	AnimateClippingWithCollision(durationMs float32, onEnd func())

	// AnimatePreset runs a preset camera path.
	//
	// Parameters:
	//   - preset: the path and optional collision timing
	//   - onEnd: called when the last camera move completes, may be nil
	AnimatePreset(preset Preset, onEnd func())

	// SetEventTime enables time-driven visibility for an event lasting timeNs nanoseconds.
	// Non-positive values disable it.
	SetEventTime(timeNs float64)

	// TimeProgress returns the event clock as a fraction of the event time.
	//
	// Returns:
	//   - float64: progress in [0, 1], zero when no event time is set
	TimeProgress() float64

	// SetNormalizedTime moves the event clock to progress (clamped to [0, 1]).
	SetNormalizedTime(progress float64)

	// Update advances the event clock and shows only event objects whose "time" attribute
	// has been reached.
	//
	// Parameters:
	//   - dtSeconds: elapsed time in seconds
	Update(dtSeconds float32)
}

var _ Manager = &manager{}

// NewManager creates an animation Manager.
//
// Parameters:
//   - scenes: the scene graph to animate
//   - controls: the cameras to move
//   - scheduler: the scheduler advanced by the frame loop
//   - options: variadic list of ManagerBuilderOption functions
//
// Returns:
//   - Manager: the new animation manager
func NewManager(scenes scene.Manager, controls camera.Controls, scheduler tween.Scheduler, options ...ManagerBuilderOption) Manager {
	m := &manager{
		mu:           &sync.Mutex{},
		scenes:       scenes,
		controls:     controls,
		scheduler:    scheduler,
		clipConstant: defaultClipConstant,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *manager) CameraTween(position mgl32.Vec3, durationMs float32, easing ease.TweenFunc) *tween.Tween {
	// Resolved when the tween starts so a swap of the active pair mid-sequence is honored.
	get := func() mgl32.Vec3 { return m.controls.Active().Controller().Position() }
	set := func(v mgl32.Vec3) { m.controls.Active().Controller().SetPosition(v) }
	return tween.Vec3(get, set, position, durationMs, tween.WithEasing(easing))
}

func (m *manager) AnimateCameraTransform(position, target mgl32.Vec3, durationMs float32, onEnd func()) {
	ctrl := m.controls.Active().Controller()
	m.scheduler.Add(
		tween.Vec3(ctrl.Position, ctrl.SetPosition, position, durationMs, tween.WithOnComplete(onEnd)),
		tween.Vec3(ctrl.Target, ctrl.SetTarget, target, durationMs),
	)
}

func (m *manager) AnimateThroughEvent(startPos mgl32.Vec3, durationMs float32, onEnd func()) {
	steps := []*tween.Tween{
		m.CameraTween(startPos, flythroughApproachMs, ease.OutCubic),
		m.CameraTween(mgl32.Vec3{0, 0, startPos.Z()}, durationMs, nil),
		m.CameraTween(mgl32.Vec3{0, 0, flythroughRadius}, durationMs, ease.OutCubic),
	}

	step := float64(flythroughAngle) / flythroughSteps
	single := durationMs * 4 / flythroughSteps
	for i := 1; i <= flythroughSteps; i++ {
		sin, cos := math.Sincos(step * float64(i))
		steps = append(steps, m.CameraTween(
			mgl32.Vec3{float32(flythroughRadius * sin), 0, float32(flythroughRadius * cos)},
			single, nil,
		))
	}

	steps = append(steps,
		m.CameraTween(mgl32.Vec3{0, 0, -startPos.Z()}, durationMs, ease.InCubic),
		tween.Vec3(
			func() mgl32.Vec3 { return m.controls.Active().Controller().Position() },
			func(v mgl32.Vec3) { m.controls.Active().Controller().SetPosition(v) },
			startPos, durationMs,
			tween.WithEasing(ease.OutCubic),
			tween.WithDelay(flythroughReturnDelay),
			tween.WithOnComplete(onEnd),
		),
	)
	m.scheduler.Add(tween.Sequence(steps...))
}

func (m *manager) AnimatePreset(preset Preset, onEnd func()) {
	labels := m.scenes.Labels()
	labels.Visible = false

	if preset.AnimateEventAfter > 0 && preset.CollisionDuration > 0 {
		m.scenes.EventData().Visible = false
		collision := preset.CollisionDuration
		m.scheduler.Add(tween.Wait(preset.AnimateEventAfter, func() {
			m.AnimateEventWithCollision(collision, nil)
		}))
	}

	finish := func() {
		labels.Visible = true
		if onEnd != nil {
			onEnd()
		}
	}
	if len(preset.Positions) == 0 {
		finish()
		return
	}

	steps := make([]*tween.Tween, 0, len(preset.Positions))
	for i, p := range preset.Positions {
		duration := p.Duration
		if duration <= 0 {
			duration = defaultPresetStepMs
		}
		t := m.CameraTween(p.Position, duration, p.Easing)
		if i == len(preset.Positions)-1 {
			tween.WithOnComplete(finish)(t)
		}
		steps = append(steps, t)
	}
	m.debugf("preset %q: %d steps", preset.Name, len(steps))
	m.scheduler.Add(tween.Sequence(steps...))
}

func (m *manager) SetEventTime(timeNs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.eventTimeNs = max(timeNs, 0)
	m.currentTimeNs = 0
}

func (m *manager) TimeProgress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventTimeNs <= 0 {
		return 0
	}
	return min(m.currentTimeNs/m.eventTimeNs, 1)
}

func (m *manager) SetNormalizedTime(progress float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.eventTimeNs <= 0 {
		return
	}
	m.currentTimeNs = max(0, min(1, progress)) * m.eventTimeNs
}

func (m *manager) Update(dtSeconds float32) {
	m.mu.Lock()
	if m.eventTimeNs <= 0 {
		m.mu.Unlock()
		return
	}
	m.currentTimeNs = min(m.currentTimeNs+float64(dtSeconds)*1e9, m.eventTimeNs)
	now := m.currentTimeNs
	m.mu.Unlock()

	m.scenes.EventData().Traverse(func(obj *scene.Object) {
		if t, ok := eventTime(obj); ok {
			obj.Visible = t <= now
		}
	})
}

func (m *manager) debugf(format string, args ...any) {
	if m.verbose {
		log.Printf("animation: "+format, args...)
	}
}
