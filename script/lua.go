// Copyright 2024 Lattice Engine Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package script provides Lua-backed node behaviors for the scene
// graph. A script is a chunk of Lua source defining optional
// on_init, on_update(dt) and on_deinit callbacks; a small node API
// is exposed to the chunk for reading and writing the state of the
// node the script is attached to.
package script

import (
	"fmt"

	"github.com/latticeengine/lattice/math32"
	"github.com/latticeengine/lattice/scene"
	lua "github.com/yuin/gopher-lua"
)

// LuaScript runs a Lua chunk as per-node behavior. It implements
// [scene.Script]. Each script instance owns its own interpreter
// state, created on init and closed on deinit.
type LuaScript struct {
	// Source is the Lua chunk.
	Source string

	state *lua.LState
	ctx   *scene.ScriptContext
}

// New returns a script that will run the given Lua source.
func New(source string) *LuaScript {
	return &LuaScript{Source: source}
}

// OnInit creates the interpreter, registers the node API, runs the
// chunk and calls its on_init callback if defined.
func (s *LuaScript) OnInit(ctx *scene.ScriptContext) error {
	s.state = lua.NewState()
	s.registerNodeAPI()

	s.ctx = ctx
	defer func() { s.ctx = nil }()
	if err := s.state.DoString(s.Source); err != nil {
		return fmt.Errorf("script: %w", err)
	}
	return s.call("on_init")
}

// OnUpdate calls the chunk's on_update(dt) callback if defined.
func (s *LuaScript) OnUpdate(ctx *scene.ScriptContext) error {
	if s.state == nil {
		return nil
	}
	s.ctx = ctx
	defer func() { s.ctx = nil }()
	return s.call("on_update", lua.LNumber(ctx.Dt))
}

// OnDeinit calls the chunk's on_deinit callback if defined and
// closes the interpreter.
func (s *LuaScript) OnDeinit(ctx *scene.ScriptContext) error {
	if s.state == nil {
		return nil
	}
	s.ctx = ctx
	err := s.call("on_deinit")
	s.ctx = nil
	s.state.Close()
	s.state = nil
	return err
}

// Global returns the value of a global variable in the script's
// interpreter, for inspection from the host.
func (s *LuaScript) Global(name string) lua.LValue {
	if s.state == nil {
		return lua.LNil
	}
	return s.state.GetGlobal(name)
}

func (s *LuaScript) call(name string, args ...lua.LValue) error {
	fn := s.state.GetGlobal(name)
	if fn == lua.LNil {
		return nil
	}
	err := s.state.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil {
		return fmt.Errorf("script: %s: %w", name, err)
	}
	return nil
}

// registerNodeAPI exposes the attached node to Lua through a global
// "node" table.
func (s *LuaScript) registerNodeAPI() {
	L := s.state
	node := L.NewTable()

	L.SetField(node, "name", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(s.base().Name))
		return 1
	}))
	L.SetField(node, "get_position", L.NewFunction(func(L *lua.LState) int {
		pos := s.base().Local.Position
		L.Push(lua.LNumber(pos.X))
		L.Push(lua.LNumber(pos.Y))
		L.Push(lua.LNumber(pos.Z))
		return 3
	}))
	L.SetField(node, "set_position", L.NewFunction(func(L *lua.LState) int {
		x := float32(L.CheckNumber(1))
		y := float32(L.CheckNumber(2))
		z := float32(L.CheckNumber(3))
		s.base().SetLocalPosition(math32.Vec3(x, y, z))
		return 0
	}))
	L.SetField(node, "get_global_position", L.NewFunction(func(L *lua.LState) int {
		pos := s.base().GlobalPosition()
		L.Push(lua.LNumber(pos.X))
		L.Push(lua.LNumber(pos.Y))
		L.Push(lua.LNumber(pos.Z))
		return 3
	}))
	L.SetField(node, "is_visible", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(s.base().Visible))
		return 1
	}))
	L.SetField(node, "set_visible", L.NewFunction(func(L *lua.LState) int {
		s.base().SetVisibility(L.CheckBool(1))
		return 0
	}))
	L.SetField(node, "set_lifetime", L.NewFunction(func(L *lua.LState) int {
		s.base().SetLifetime(float32(L.CheckNumber(1)))
		return 0
	}))

	L.SetGlobal("node", node)
}

func (s *LuaScript) base() *scene.Base {
	if s.ctx == nil || s.ctx.Node == nil {
		panic("script: node API used outside a script callback")
	}
	return s.ctx.Node.AsBase()
}
