package animation

import (
	"github.com/Carmen-Shannon/phoenix-go/common"
	"github.com/Carmen-Shannon/phoenix-go/engine/model"
	"github.com/Carmen-Shannon/phoenix-go/engine/renderer/material"
	"github.com/Carmen-Shannon/phoenix-go/engine/scene"
	"github.com/Carmen-Shannon/phoenix-go/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
)

// Collision marker timing.
const markerFadeMs = 300

// ParticleName names the collision markers while they are in the scene.
const ParticleName = "CollisionParticle"

func (m *manager) CollideParticles(durationMs float32, onEnd func(), options ...CollisionOption) {
	cfg := &collisionConfig{
		size:     defaultParticleSize,
		distance: defaultParticleOffsetZ,
		color:    common.ColorWhite,
	}
	for _, opt := range options {
		opt(cfg)
	}

	eventData := m.scenes.EventData()
	eventData.Visible = false

	geometry := model.NewSphereGeometry(cfg.size, 32, 32)
	root := m.scenes.Root()
	markers := make([]*scene.Object, 2)
	var tweens []*tween.Tween
	for i, z := range []float32{cfg.distance, -cfg.distance} {
		mat := material.NewMaterial(
			material.WithColor(cfg.color),
			material.WithTransparent(true),
			material.WithOpacity(0),
		)
		marker := scene.NewObject(scene.TypeMesh,
			scene.WithName(ParticleName),
			scene.WithGeometry(geometry),
			scene.WithMaterial(mat),
			scene.WithPosition(mgl32.Vec3{0, 0, z}),
		)
		markers[i] = marker
		root.Add(marker)

		tweens = append(tweens,
			tween.Scalar(mat.Opacity, mat.SetOpacity, 1, markerFadeMs),
			tween.Scalar(
				func() float32 { return marker.Position.Z() },
				func(v float32) { marker.Position = mgl32.Vec3{marker.Position.X(), marker.Position.Y(), v} },
				0, durationMs,
			),
		)
	}

	// The first marker's arrival ends the collision for both.
	tween.WithOnComplete(func() {
		for _, marker := range markers {
			marker.RemoveFromParent()
		}
		m.scheduler.Add(tween.Wait(collisionGraceDelayMs, func() {
			eventData.Visible = true
		}))
		if onEnd != nil {
			onEnd()
		}
	})(tweens[1])
	m.scheduler.Add(tweens...)
}

func (m *manager) AnimateWithCollision(reveal RevealFunc, durationMs float32, onEnd func()) {
	color := firstTrackColor(m.scenes.EventData())
	m.CollideParticles(defaultCollisionMs, func() {
		reveal(durationMs, onEnd, nil)
	}, WithParticleSize(collisionParticleSize), WithParticleColor(color))
}

func (m *manager) AnimateEventWithCollision(durationMs float32, onEnd func()) {
	m.AnimateWithCollision(m.AnimateEvent, durationMs, onEnd)
}

func (m *manager) AnimateClippingWithCollision(durationMs float32, onEnd func()) {
	m.AnimateWithCollision(m.AnimateEventWithClipping, durationMs, onEnd)
}

// firstTrackColor returns the material color of the first track under eventData, looking
// into the first child when the track is a group. White when there is no track.
func firstTrackColor(eventData *scene.Object) common.Color {
	track := eventData.FindByName("Track")
	if track == nil {
		return common.ColorWhite
	}
	if track.Material == nil && track.ChildCount() > 0 {
		track = track.Children()[0]
	}
	if track.Material == nil {
		return common.ColorWhite
	}
	return track.Material.Color()
}
