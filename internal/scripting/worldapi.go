package scripting

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/AntPerez69367/yuri/internal/world"
)

// Lua world API: scripts query the spatial index with a kind mask and an
// optional liveness filter, receive opaque entity handles, and
// interrogate them through accessor methods. Mirrors the pattern of the
// Go-side query engine one to one.

const entityTypeName = "entity"

// RegisterWorldAPI binds the world state into the Lua VM: kind-mask
// constants, the query family, spawn/remove/warp, and map probes.
func (e *Engine) RegisterWorldAPI(ws *world.State) {
	vm := e.vm

	// Kind mask constants.
	vm.SetGlobal("AVATAR", lua.LNumber(world.KindAvatar))
	vm.SetGlobal("CREATURE", lua.LNumber(world.KindCreature))
	vm.SetGlobal("FIXTURE", lua.LNumber(world.KindFixture))
	vm.SetGlobal("ITEM", lua.LNumber(world.KindItemStack))
	vm.SetGlobal("ALL", lua.LNumber(world.KindAll))

	e.registerEntityType(ws)

	// Query family. Each returns a table of entity handles.
	query := func(fn func(world.MapID, int32, int32, world.Kind) []*world.Entity) lua.LGFunction {
		return func(L *lua.LState) int {
			m := world.MapID(L.CheckInt(1))
			x := int32(L.CheckInt(2))
			y := int32(L.CheckInt(3))
			mask := world.Kind(L.OptInt(4, int(world.KindAll)))
			L.Push(e.entityTable(L, fn(m, x, y, mask)))
			return 1
		}
	}
	vm.SetGlobal("getObjectsInCell", vm.NewFunction(query(ws.CellQuery)))
	vm.SetGlobal("getObjectsInCellWithTraps", vm.NewFunction(query(ws.CellQueryWithTraps)))
	vm.SetGlobal("getAliveObjectsInCell", vm.NewFunction(query(ws.AliveCellQuery)))
	vm.SetGlobal("getObjectsInArea", vm.NewFunction(query(ws.AreaQuery)))
	vm.SetGlobal("getAliveObjectsInArea", vm.NewFunction(query(ws.AliveAreaQuery)))

	mapQuery := func(fn func(world.MapID, world.Kind) []*world.Entity) lua.LGFunction {
		return func(L *lua.LState) int {
			m := world.MapID(L.CheckInt(1))
			mask := world.Kind(L.OptInt(2, int(world.KindAll)))
			L.Push(e.entityTable(L, fn(m, mask)))
			return 1
		}
	}
	vm.SetGlobal("getObjectsInMap", vm.NewFunction(mapQuery(ws.MapQuery)))
	vm.SetGlobal("getAliveObjectsInMap", vm.NewFunction(mapQuery(ws.AliveMapQuery)))

	vm.SetGlobal("getUsers", vm.NewFunction(func(L *lua.LState) int {
		L.Push(e.entityTable(L, ws.AllAvatars()))
		return 1
	}))

	vm.SetGlobal("getObject", vm.NewFunction(func(L *lua.LState) int {
		ent := ws.Lookup(world.ID(L.CheckInt64(1)))
		if ent == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(e.wrapEntity(L, ent))
		return 1
	}))

	// Map probes. Unloaded maps answer false/zero, never an error.
	vm.SetGlobal("getMapIsLoaded", vm.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(ws.Map(world.MapID(L.CheckInt(1))) != nil))
		return 1
	}))
	vm.SetGlobal("getMapUsers", vm.NewFunction(func(L *lua.LState) int {
		m := ws.Map(world.MapID(L.CheckInt(1)))
		if m == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(m.Avatars()))
		return 1
	}))
	vm.SetGlobal("getMapWidth", vm.NewFunction(func(L *lua.LState) int {
		m := ws.Map(world.MapID(L.CheckInt(1)))
		if m == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(m.Width))
		return 1
	}))
	vm.SetGlobal("getMapHeight", vm.NewFunction(func(L *lua.LState) int {
		m := ws.Map(world.MapID(L.CheckInt(1)))
		if m == nil {
			L.Push(lua.LNumber(0))
			return 1
		}
		L.Push(lua.LNumber(m.Height))
		return 1
	}))

	// Scripted creation/removal.
	vm.SetGlobal("spawnCreature", vm.NewFunction(func(L *lua.LState) int {
		species := int32(L.CheckInt(1))
		m := world.MapID(L.CheckInt(2))
		x := int32(L.CheckInt(3))
		y := int32(L.CheckInt(4))
		name := L.OptString(5, "")
		ent := world.NewCreature(name, species, m, x, y)
		if ws.Spawn(ent) == 0 {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(e.wrapEntity(L, ent))
		return 1
	}))
	vm.SetGlobal("spawnFixture", vm.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		script := L.CheckString(2)
		trap := L.CheckBool(3)
		m := world.MapID(L.CheckInt(4))
		x := int32(L.CheckInt(5))
		y := int32(L.CheckInt(6))
		ent := world.NewFixture(name, script, trap, m, x, y)
		if ws.Spawn(ent) == 0 {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(e.wrapEntity(L, ent))
		return 1
	}))
	vm.SetGlobal("dropItem", vm.NewFunction(func(L *lua.LState) int {
		m := world.MapID(L.CheckInt(1))
		x := int32(L.CheckInt(2))
		y := int32(L.CheckInt(3))
		item := int32(L.CheckInt(4))
		count := int32(L.OptInt(5, 1))
		ent := ws.DropItem(m, x, y, item, count, 0)
		if ent == nil {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(e.wrapEntity(L, ent))
		return 1
	}))
	vm.SetGlobal("removeObject", vm.NewFunction(func(L *lua.LState) int {
		// Removing an id that already despawned is a silent no-op.
		if ent := ws.Lookup(world.ID(L.CheckInt64(1))); ent != nil {
			ws.Despawn(ent)
		}
		return 0
	}))
}

// registerEntityType installs the entity handle metatable. Handles wrap
// a *world.Entity; a handle held across ticks may refer to a despawned
// entity, so scripts re-validate through getObject when in doubt.
func (e *Engine) registerEntityType(ws *world.State) {
	vm := e.vm
	mt := vm.NewTypeMetatable(entityTypeName)

	methods := map[string]lua.LGFunction{
		"id": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkEntity(L).ID))
			return 1
		},
		"kind": func(L *lua.LState) int {
			L.Push(lua.LNumber(checkEntity(L).Kind))
			return 1
		},
		"name": func(L *lua.LState) int {
			L.Push(lua.LString(checkEntity(L).Name))
			return 1
		},
		"pos": func(L *lua.LState) int {
			ent := checkEntity(L)
			L.Push(lua.LNumber(ent.MapID))
			L.Push(lua.LNumber(ent.X))
			L.Push(lua.LNumber(ent.Y))
			return 3
		},
		"isAlive": func(L *lua.LState) int {
			L.Push(lua.LBool(checkEntity(L).Interactable()))
			return 1
		},
		"warp": func(L *lua.LState) int {
			ent := checkEntity(L)
			m := world.MapID(L.CheckInt(2))
			x := int32(L.CheckInt(3))
			y := int32(L.CheckInt(4))
			ws.Relocate(ent, m, x, y)
			return 0
		},
		"remove": func(L *lua.LState) int {
			ws.Despawn(checkEntity(L))
			return 0
		},
	}
	vm.SetField(mt, "__index", vm.SetFuncs(vm.NewTable(), methods))
}

func (e *Engine) wrapEntity(L *lua.LState, ent *world.Entity) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = ent
	L.SetMetatable(ud, L.GetTypeMetatable(entityTypeName))
	return ud
}

func (e *Engine) entityTable(L *lua.LState, entities []*world.Entity) *lua.LTable {
	t := L.NewTable()
	for _, ent := range entities {
		t.Append(e.wrapEntity(L, ent))
	}
	return t
}

func checkEntity(L *lua.LState) *world.Entity {
	ud := L.CheckUserData(1)
	if ent, ok := ud.Value.(*world.Entity); ok {
		return ent
	}
	L.ArgError(1, "entity expected")
	return nil
}

// WrapEntity exposes handle construction for Go-side event dispatch
// (e.g. passing the stepping avatar to a trap script).
func (e *Engine) WrapEntity(ent *world.Entity) lua.LValue {
	if ent == nil {
		return lua.LNil
	}
	return e.wrapEntity(e.vm, ent)
}
