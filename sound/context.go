// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sound provides the audio context a scene graph is paired
// with. The context carries the global pause switch and listener
// placement; actual mixing is out of scope.
package sound

import "github.com/latticeengine/lattice/math32"

// Context is the audio state of one scene.
type Context struct {
	paused     bool
	masterGain float32

	// ListenerPosition and ListenerOrientation are written from the
	// scene's active listener node each update.
	ListenerPosition    math32.Vector3
	ListenerOrientation math32.Quat
}

// NewContext returns a new unpaused context with unit master gain.
func NewContext() *Context {
	return &Context{masterGain: 1, ListenerOrientation: math32.QuatIdentity()}
}

// Pause sets whether the context is paused. The scene update writes
// its own pause switch here every tick.
func (c *Context) Pause(paused bool) {
	c.paused = paused
}

// IsPaused returns whether the context is paused.
func (c *Context) IsPaused() bool {
	return c.paused
}

// SetMasterGain sets the overall output gain, clamped to [0, 1].
func (c *Context) SetMasterGain(gain float32) {
	c.masterGain = math32.Clamp(gain, 0, 1)
}

// MasterGain returns the overall output gain.
func (c *Context) MasterGain() float32 {
	return c.masterGain
}
