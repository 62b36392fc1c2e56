package system

import (
	"testing"
	"time"

	"github.com/AntPerez69367/yuri/internal/core/event"
	"github.com/AntPerez69367/yuri/internal/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestWorld(t *testing.T) *world.State {
	t.Helper()
	ws := world.NewState(zap.NewNop())
	ws.LoadMap(1, "test", 64, 64)
	return ws
}

func TestRespawnCycle(t *testing.T) {
	ws := newTestWorld(t)
	bus := event.NewBus()
	sys := NewRespawnSystem(ws, bus, 3, zap.NewNop())

	wolf := world.NewCreature("wolf", 1010, 1, 30, 30)
	require.NotZero(t, ws.Spawn(wolf))
	ws.Relocate(wolf, 1, 40, 40) // wander away from home before dying

	event.Emit(bus, event.CreatureDied{Creature: wolf, KillerID: 0})
	bus.Dispatch()

	assert.Equal(t, world.CreatureDead, wolf.Creature.State)
	assert.Empty(t, ws.AliveCellQuery(1, 40, 40, world.KindCreature),
		"corpse hidden from alive queries")
	assert.Len(t, ws.CellQuery(1, 40, 40, world.KindCreature), 1,
		"corpse still visible to raw queries")

	sys.Update(time.Millisecond) // 3 → 2
	sys.Update(time.Millisecond) // 2 → 1
	assert.Equal(t, world.CreatureDead, wolf.Creature.State)

	sys.Update(time.Millisecond) // 1 → 0: revive at home tile
	assert.Equal(t, world.CreatureAlive, wolf.Creature.State)
	assert.Equal(t, int32(30), wolf.X)
	assert.Equal(t, int32(30), wolf.Y)
	assert.Len(t, ws.AliveCellQuery(1, 30, 30, world.KindCreature), 1)
}

func TestRespawnIgnoresLivingCreatures(t *testing.T) {
	ws := newTestWorld(t)
	bus := event.NewBus()
	sys := NewRespawnSystem(ws, bus, 3, zap.NewNop())

	bear := world.NewCreature("bear", 1011, 1, 10, 10)
	require.NotZero(t, ws.Spawn(bear))

	for i := 0; i < 10; i++ {
		sys.Update(time.Millisecond)
	}
	assert.Equal(t, world.CreatureAlive, bear.Creature.State)
	assert.Equal(t, 0, bear.Creature.RespawnTicks)
}

func TestCleanupDeferredDespawn(t *testing.T) {
	ws := newTestWorld(t)
	sys := NewCleanupSystem(ws)

	rat := world.NewCreature("rat", 1001, 1, 5, 5)
	id := ws.Spawn(rat)
	require.NotZero(t, id)

	sys.Enqueue(id)
	assert.NotNil(t, ws.Lookup(id), "still present until cleanup runs")

	sys.Update(time.Millisecond)
	assert.Nil(t, ws.Lookup(id))
	assert.Empty(t, ws.CellQuery(1, 5, 5, world.KindAll))
}

func TestCleanupToleratesAlreadyDespawned(t *testing.T) {
	ws := newTestWorld(t)
	sys := NewCleanupSystem(ws)

	rat := world.NewCreature("rat", 1001, 1, 5, 5)
	id := ws.Spawn(rat)
	require.NotZero(t, id)

	sys.Enqueue(id)
	sys.Enqueue(id) // double-queued
	ws.Despawn(rat) // and despawned through another path first

	sys.Update(time.Millisecond) // must not panic or log-error loop
	assert.Nil(t, ws.Lookup(id))
}
