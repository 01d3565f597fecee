// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sound_test

import (
	"testing"

	"github.com/latticeengine/lattice/sound"
	"github.com/stretchr/testify/assert"
)

func TestPause(t *testing.T) {
	c := sound.NewContext()
	assert.False(t, c.IsPaused())
	c.Pause(true)
	assert.True(t, c.IsPaused())
}

func TestMasterGainClamped(t *testing.T) {
	c := sound.NewContext()
	assert.Equal(t, float32(1), c.MasterGain())

	c.SetMasterGain(2)
	assert.Equal(t, float32(1), c.MasterGain())
	c.SetMasterGain(-0.5)
	assert.Equal(t, float32(0), c.MasterGain())
	c.SetMasterGain(0.3)
	assert.Equal(t, float32(0.3), c.MasterGain())
}
