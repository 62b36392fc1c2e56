package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnAssignsMonotonicIDs(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	var last ID
	for i := 0; i < 5; i++ {
		id := s.Spawn(NewCreature("orc", 7, 1, 10, 10))
		require.Greater(t, id, last)
		last = id
	}
	assert.Equal(t, 5, s.Population())
}

func TestSpawnRegistersAndJoins(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	e := NewAvatar("ree", 1, 1, 10, 10)
	id := s.Spawn(e)

	require.NotZero(t, id)
	assert.Same(t, e, s.Lookup(id))
	assert.Equal(t, []*Entity{e}, s.CellQuery(1, 10, 10, KindAvatar))
}

func TestSpawnBoundaryCoordinates(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 48)

	origin := NewCreature("a", 7, 1, 0, 0)
	corner := NewCreature("b", 7, 1, 63, 47)
	s.Spawn(origin)
	s.Spawn(corner)

	assert.Equal(t, []*Entity{origin}, s.CellQuery(1, 0, 0, KindCreature))
	assert.Equal(t, []*Entity{corner}, s.CellQuery(1, 63, 47, KindCreature))
}

func TestSpawnClampsOutOfRangeCoordinates(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	// Hand-edited spawn data goes out of bounds; clamp, never reject.
	e := NewCreature("stray", 7, 1, 200, -3)
	id := s.Spawn(e)

	require.NotZero(t, id)
	assert.Equal(t, int32(63), e.X)
	assert.Equal(t, int32(0), e.Y)
	assert.Contains(t, s.CellQuery(1, 63, 0, KindCreature), e)
}

func TestSpawnOntoUnloadedMapIsRejected(t *testing.T) {
	s := newTestState()
	e := NewCreature("orc", 7, 404, 10, 10)
	assert.Zero(t, s.Spawn(e))
	assert.Equal(t, 0, s.Population())
}

// The relocate invariant: at every point exactly one of {old cell holds
// the entity, new cell holds it} — never both, never neither.
func TestRelocateExactlyOneCell(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	e := NewAvatar("ree", 1, 1, 10, 10)
	s.Spawn(e)

	steps := [][2]int32{{12, 12}, {20, 20}, {0, 0}, {63, 63}, {31, 32}}
	for _, p := range steps {
		oldX, oldY := e.X, e.Y
		s.Relocate(e, 1, p[0], p[1])

		inNew := containsEntity(s.CellQuery(1, p[0], p[1], KindAvatar), e)
		require.True(t, inNew, "entity must be in its new cell after relocate to (%d,%d)", p[0], p[1])

		m := s.Map(1)
		if m.cellIndex(oldX, oldY) != m.cellIndex(p[0], p[1]) {
			inOld := containsEntity(s.CellQuery(1, oldX, oldY, KindAvatar), e)
			require.False(t, inOld, "entity must have left its old cell")
		}
	}
}

func containsEntity(list []*Entity, e *Entity) bool {
	for _, v := range list {
		if v == e {
			return true
		}
	}
	return false
}

func TestRelocateSameCellUpdatesPositionOnly(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	e := NewCreature("orc", 7, 1, 10, 10)
	s.Spawn(e)

	s.Relocate(e, 1, 12, 13) // still cell (1,1)
	assert.Equal(t, int32(12), e.X)
	assert.Equal(t, int32(13), e.Y)
	assert.Equal(t, []*Entity{e}, s.CellQuery(1, 12, 13, KindCreature))
}

func TestRelocateCrossMapTransfer(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)
	s.LoadMap(2, "cave", 32, 32)

	e := NewAvatar("ree", 1, 1, 10, 10)
	s.Spawn(e)

	s.Relocate(e, 2, 40, 5) // x clamps to 31 on the smaller map
	assert.Equal(t, MapID(2), e.MapID)
	assert.Equal(t, int32(31), e.X)
	assert.Empty(t, s.CellQuery(1, 10, 10, KindAvatar))
	assert.Equal(t, []*Entity{e}, s.CellQuery(2, 31, 5, KindAvatar))
}

func TestRelocateToUnloadedMapKeepsEntityInPlace(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	e := NewAvatar("ree", 1, 1, 10, 10)
	s.Spawn(e)
	s.Relocate(e, 404, 5, 5)

	assert.Equal(t, MapID(1), e.MapID)
	assert.Equal(t, []*Entity{e}, s.CellQuery(1, 10, 10, KindAvatar))
}

func TestDespawnRemovesDiscoverability(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	e := NewCreature("orc", 7, 1, 10, 10)
	id := s.Spawn(e)
	s.Despawn(e)

	assert.Nil(t, s.Lookup(id))
	assert.Empty(t, s.CellQuery(1, 10, 10, KindCreature))
}

func TestDespawnIsIdempotent(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	e := NewCreature("orc", 7, 1, 10, 10)
	id := s.Spawn(e)
	s.Despawn(e)
	s.Despawn(e) // deferred death cleanup firing twice

	assert.Nil(t, s.Lookup(id))
	assert.Equal(t, 0, s.Population())
}

func TestUnloadMapDespawnsEverything(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	s.Spawn(NewAvatar("ree", 1, 1, 5, 5))
	s.Spawn(NewCreature("orc", 7, 1, 9, 9))
	s.Spawn(NewFixture("spikes", "spike_trap.lua", true, 1, 12, 12))

	s.UnloadMap(1)
	assert.Nil(t, s.Map(1))
	assert.Equal(t, 0, s.Population())
}

func TestDropItemMergesCompatibleStacks(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	first := s.DropItem(1, 10, 10, 2001, 3, 77)
	require.NotNil(t, first)

	merged := s.DropItem(1, 10, 10, 2001, 2, 78)
	assert.Same(t, first, merged)
	assert.Equal(t, int32(5), merged.Item.Count)
	assert.ElementsMatch(t, []ID{77, 78}, merged.Item.Owners)

	// Different item id on the same tile stays a separate stack.
	other := s.DropItem(1, 10, 10, 3005, 1, 0)
	assert.NotSame(t, first, other)
	assert.Len(t, s.CellQuery(1, 10, 10, KindItemStack), 2)
}

func TestMayLoot(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	stack := s.DropItem(1, 10, 10, 2001, 1, 77)
	assert.True(t, MayLoot(stack, 77))
	assert.False(t, MayLoot(stack, 99))

	stack.Item.Owners = nil // claim window lapsed
	assert.True(t, MayLoot(stack, 99))
}
