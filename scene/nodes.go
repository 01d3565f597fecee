// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import "github.com/latticeengine/lattice/math32"

// Pivot is a node with no behavior of its own, used to group other
// nodes and as the graph root.
type Pivot struct {
	Base `yaml:",inline"`
}

// NewPivot returns a new pivot with the given name.
func NewPivot(name string) *Pivot {
	return &Pivot{Base: NewBase(name)}
}

// Camera is a viewpoint node.
type Camera struct {
	Base `yaml:",inline"`

	// FieldOfView is the vertical field of view in radians.
	FieldOfView float32 `yaml:"fieldOfView"`

	// ZNear and ZFar are the near and far clip distances.
	ZNear float32 `yaml:"zNear"`
	ZFar  float32 `yaml:"zFar"`
}

// NewCamera returns a new camera with standard projection parameters.
func NewCamera(name string) *Camera {
	return &Camera{
		Base:        NewBase(name),
		FieldOfView: math32.DegToRad(75),
		ZNear:       0.025,
		ZFar:        2048,
	}
}

// ViewMatrix returns the world-to-camera transform.
func (c *Camera) ViewMatrix() *math32.Matrix4 {
	return c.GlobalTransform().Inverse()
}

// LightKind selects the emission shape of a light.
type LightKind int32

const (
	// Directional lights emit parallel rays, like the sun.
	Directional LightKind = iota

	// Point lights emit in all directions from a point.
	Point

	// Spot lights emit a cone of light.
	Spot
)

// Light is a light source node.
type Light struct {
	Base `yaml:",inline"`

	Kind      LightKind      `yaml:"kind"`
	Color     math32.Vector3 `yaml:"color"`
	Intensity float32        `yaml:"intensity"`

	// Radius bounds the influence of point and spot lights.
	Radius float32 `yaml:"radius"`
}

// NewLight returns a new white point light.
func NewLight(name string) *Light {
	return &Light{
		Base:      NewBase(name),
		Kind:      Point,
		Color:     math32.Vec3(1, 1, 1),
		Intensity: 1,
		Radius:    10,
	}
}

// LocalBounds returns the light's sphere of influence as a box.
func (l *Light) LocalBounds() math32.Box3 {
	if l.Kind == Directional {
		return math32.B3Empty()
	}
	b := math32.Box3{}
	b.SetFromCenterAndSize(math32.Vector3{}, math32.Vector3Scalar(2*l.Radius))
	return b
}

// Mesh is a node with renderable geometry, represented here only by
// its local bounding box.
type Mesh struct {
	Base `yaml:",inline"`

	Bounds      math32.Box3 `yaml:"bounds"`
	CastShadows bool        `yaml:"castShadows"`
}

// NewMesh returns a new mesh with a unit bounding box.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Base:        NewBase(name),
		Bounds:      math32.B3(-0.5, -0.5, -0.5, 0.5, 0.5, 0.5),
		CastShadows: true,
	}
}

// LocalBounds returns the mesh bounding box.
func (m *Mesh) LocalBounds() math32.Box3 {
	return m.Bounds
}

// ParticleSystem is a particle emitter node. Simulation is coarse:
// the system tracks how many particles it has emitted and how many
// are alive given the particle lifetime.
type ParticleSystem struct {
	Base `yaml:",inline"`

	// Emitting gates emission.
	Emitting bool `yaml:"emitting"`

	// Rate is particles emitted per second.
	Rate float32 `yaml:"rate"`

	// ParticleLifetime is how long each particle lives, in seconds.
	ParticleLifetime float32 `yaml:"particleLifetime"`

	emitted   float64
	aliveTail float64
}

// NewParticleSystem returns a new emitting particle system.
func NewParticleSystem(name string) *ParticleSystem {
	return &ParticleSystem{
		Base:             NewBase(name),
		Emitting:         true,
		Rate:             10,
		ParticleLifetime: 5,
	}
}

// Alive returns the number of currently live particles.
func (p *ParticleSystem) Alive() int {
	return int(p.emitted - p.aliveTail)
}

// Update advances emission.
func (p *ParticleSystem) Update(ctx *UpdateContext) {
	if p.Emitting {
		p.emitted += float64(p.Rate * ctx.Dt)
	}
	// particles emitted more than a lifetime ago have expired
	expired := p.emitted - float64(p.Rate)*float64(p.ParticleLifetime)
	if expired > p.aliveTail {
		p.aliveTail = expired
	}
}

// Listener is the ear of the scene: each update it places the sound
// context's listener at its own global position.
type Listener struct {
	Base `yaml:",inline"`
}

// NewListener returns a new listener.
func NewListener(name string) *Listener {
	return &Listener{Base: NewBase(name)}
}

// Update writes the listener placement into the sound context.
func (l *Listener) Update(ctx *UpdateContext) {
	ctx.Graph.Sound.ListenerPosition = l.GlobalPosition()
	ctx.Graph.Sound.ListenerOrientation = l.GlobalRotation()
}
