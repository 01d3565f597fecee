// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package script_test

import (
	"testing"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/scene"
	"github.com/latticeengine/lattice/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestLuaScriptCallbacks(t *testing.T) {
	g := scene.NewGraph()
	n := scene.NewPivot("counter")
	sc := script.New(`
		ticks = 0
		inited = false
		function on_init()
			inited = true
		end
		function on_update(dt)
			ticks = ticks + 1
		end
	`)
	n.SetScript(sc)
	h := g.AddNode(n)

	g.Update(0.016)
	g.Update(0.016)

	assert.Equal(t, lua.LTrue, sc.Global("inited"))
	assert.Equal(t, lua.LNumber(2), sc.Global("ticks"))

	g.RemoveNode(h)
	assert.Equal(t, lua.LNil, sc.Global("ticks"), "interpreter closes on deinit")
}

func TestLuaScriptMovesNode(t *testing.T) {
	g := scene.NewGraph()
	n := scene.NewPivot("mover")
	n.SetScript(script.New(`
		function on_update(dt)
			local x, y, z = node.get_position()
			node.set_position(x + dt, y, z)
		end
	`))
	g.AddNode(n)

	g.Update(0.5)
	g.Update(0.5)

	assert.InDelta(t, 1.0, float64(n.Local.Position.X), 1.0e-5)
	assert.Equal(t, math32.Vec3(1, 0, 0), n.GlobalPosition())
}

func TestLuaScriptReadsNodeState(t *testing.T) {
	g := scene.NewGraph()
	n := scene.NewPivot("probe")
	n.Local.Position = math32.Vec3(2, 4, 6)
	sc := script.New(`
		function on_init()
			gx, gy, gz = node.get_global_position()
			name = node.name()
			visible = node.is_visible()
		end
	`)
	n.SetScript(sc)
	g.AddNode(n)
	g.Update(0.016)

	assert.Equal(t, lua.LString("probe"), sc.Global("name"))
	assert.Equal(t, lua.LTrue, sc.Global("visible"))
	assert.Equal(t, lua.LNumber(4), sc.Global("gy"))
}

func TestLuaScriptSetsLifetime(t *testing.T) {
	g := scene.NewGraph()
	n := scene.NewPivot("fuse")
	n.SetScript(script.New(`
		function on_init()
			node.set_lifetime(0.05)
		end
	`))
	h := g.AddNode(n)

	g.Update(0.1)
	assert.False(t, g.IsValid(h), "expired node is removed")
}

func TestLuaScriptSyntaxErrorReported(t *testing.T) {
	sc := script.New(`this is not lua`)
	err := sc.OnInit(&scene.ScriptContext{})
	require.Error(t, err)
}
