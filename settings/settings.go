// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package settings loads and saves engine settings from TOML files.
package settings

import (
	"fmt"
	"os"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/scene"
	"github.com/pelletier/go-toml/v2"
)

// Settings are the tunable engine defaults applied to new scenes.
type Settings struct {
	// FixedTimestep is the update step in seconds.
	FixedTimestep float32 `toml:"fixed_timestep"`

	// Gravity is the default 3D gravity along Y.
	Gravity float32 `toml:"gravity"`

	// Physics enables 3D physics stepping during scene update.
	Physics bool `toml:"physics"`

	// Physics2D enables 2D physics stepping during scene update.
	Physics2D bool `toml:"physics2d"`

	// DeleteDeadNodes enables removal of nodes whose lifetime expired.
	DeleteDeadNodes bool `toml:"delete_dead_nodes"`
}

// Defaults returns the standard settings.
func Defaults() Settings {
	return Settings{
		FixedTimestep:   1.0 / 60.0,
		Gravity:         -9.81,
		Physics:         true,
		Physics2D:       true,
		DeleteDeadNodes: true,
	}
}

// Apply configures the graph's physics worlds from the settings and
// returns the update switches they select. Pass the switches to
// [scene.Graph.UpdateWith] each tick.
func Apply(s Settings, g *scene.Graph) scene.UpdateSwitches {
	g.Physics.Gravity = math32.Vec3(0, s.Gravity, 0)
	g.Physics2D.Gravity = math32.Vec2(0, s.Gravity)
	g.Physics.Enabled = s.Physics
	g.Physics2D.Enabled = s.Physics2D

	sw := scene.DefaultUpdateSwitches()
	sw.Physics = s.Physics
	sw.Physics2D = s.Physics2D
	sw.DeleteDeadNodes = s.DeleteDeadNodes
	return sw
}

// Load reads settings from the TOML file at the given path.
// Fields missing from the file keep their default values.
func Load(path string) (Settings, error) {
	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("settings: %w", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("settings: parsing %s: %w", path, err)
	}
	return s, nil
}

// Save writes the settings as TOML to the given path.
func Save(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	return nil
}
