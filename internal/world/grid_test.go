package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestState() *State {
	return NewState(zap.NewNop())
}

func TestMapCellDimensions(t *testing.T) {
	m := NewMap(1, "field", 64, 64, zap.NewNop())
	assert.Equal(t, int32(8), m.cw)
	assert.Equal(t, int32(8), m.ch)
	assert.Len(t, m.cells, 64)

	// Non-multiple dimensions round the cell counts up.
	m = NewMap(2, "odd", 65, 9, zap.NewNop())
	assert.Equal(t, int32(9), m.cw)
	assert.Equal(t, int32(2), m.ch)
}

func TestMapClamp(t *testing.T) {
	m := NewMap(1, "field", 64, 48, zap.NewNop())

	x, y := m.Clamp(-5, -1)
	assert.Equal(t, int32(0), x)
	assert.Equal(t, int32(0), y)

	x, y = m.Clamp(64, 48)
	assert.Equal(t, int32(63), x)
	assert.Equal(t, int32(47), y)

	x, y = m.Clamp(10, 20)
	assert.Equal(t, int32(10), x)
	assert.Equal(t, int32(20), y)
}

func TestCellIndexMatchesBlockFormula(t *testing.T) {
	m := NewMap(1, "field", 64, 64, zap.NewNop())
	// x/8 + (y/8)*cellsAcross
	assert.Equal(t, int32(0), m.cellIndex(0, 0))
	assert.Equal(t, int32(9), m.cellIndex(10, 10))
	assert.Equal(t, int32(18), m.cellIndex(20, 20))
	assert.Equal(t, int32(63), m.cellIndex(63, 63))
}

func TestCreatureSublistStaysInSync(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	c := NewCreature("orc", 7, 1, 10, 10)
	a := NewAvatar("ree", 1, 1, 10, 10)
	s.Spawn(c)
	s.Spawn(a)

	m := s.Map(1)
	cell := &m.cells[m.cellIndex(10, 10)]
	assert.Len(t, cell.all, 2)
	require.Len(t, cell.creatures, 1)
	assert.Same(t, c, cell.creatures[0])

	s.Despawn(c)
	assert.Len(t, cell.all, 1)
	assert.Empty(t, cell.creatures)
}

func TestAvatarCount(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)
	s.LoadMap(2, "cave", 32, 32)

	a := NewAvatar("ree", 1, 1, 5, 5)
	b := NewAvatar("kit", 2, 1, 50, 50)
	s.Spawn(a)
	s.Spawn(b)
	s.Spawn(NewCreature("orc", 7, 1, 8, 8))

	assert.Equal(t, 2, s.Map(1).Avatars())
	assert.Equal(t, 0, s.Map(2).Avatars())

	s.Relocate(b, 2, 10, 10)
	assert.Equal(t, 1, s.Map(1).Avatars())
	assert.Equal(t, 1, s.Map(2).Avatars())

	s.Despawn(a)
	assert.Equal(t, 0, s.Map(1).Avatars())
}

func TestResizeRehomesEveryEntity(t *testing.T) {
	s := newTestState()
	s.LoadMap(1, "field", 64, 64)

	a := NewAvatar("ree", 1, 1, 60, 60)
	c := NewCreature("orc", 7, 1, 10, 10)
	s.Spawn(a)
	s.Spawn(c)

	// Shrink: (60,60) falls out of range and must be clamped back in.
	s.LoadMap(1, "field", 32, 32)

	m := s.Map(1)
	assert.Equal(t, int32(32), m.Width)
	assert.Equal(t, int32(31), a.X)
	assert.Equal(t, int32(31), a.Y)

	// Both entities remain discoverable at their (possibly new) cells.
	assert.Equal(t, []*Entity{a}, s.CellQuery(1, 31, 31, KindAll))
	assert.Equal(t, []*Entity{c}, s.CellQuery(1, 10, 10, KindAll))
	assert.Equal(t, 1, m.Avatars())
}

func TestLeaveOfMissingEntityPanicsUnderStrictChecks(t *testing.T) {
	SetStrictChecks(true)
	defer SetStrictChecks(false)

	m := NewMap(1, "field", 64, 64, zap.NewNop())
	ghost := NewCreature("ghost", 7, 1, 10, 10)
	ghost.ID = 1
	assert.Panics(t, func() { m.leave(ghost) })
}
