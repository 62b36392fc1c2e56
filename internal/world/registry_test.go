package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegistryRegisterLookup(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	e := NewCreature("orc", 7, 1, 10, 10)
	e.ID = 42
	r.Register(e)

	require.Same(t, e, r.Lookup(42))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryLookupAbsent(t *testing.T) {
	r := NewRegistry(zap.NewNop())
	// Absent ids are an expected condition: nil result, no error.
	assert.Nil(t, r.Lookup(9999))
}

func TestRegistryDuplicateRegisterIsNoOp(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	a := NewCreature("orc", 7, 1, 10, 10)
	a.ID = 5
	b := NewCreature("impostor", 7, 1, 12, 12)
	b.ID = 5

	r.Register(a)
	r.Register(b) // caller bug: logged, ignored

	assert.Same(t, a, r.Lookup(5))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryDuplicateRegisterPanicsUnderStrictChecks(t *testing.T) {
	SetStrictChecks(true)
	defer SetStrictChecks(false)

	r := NewRegistry(zap.NewNop())
	a := NewCreature("orc", 7, 1, 10, 10)
	a.ID = 5
	b := NewCreature("impostor", 7, 1, 12, 12)
	b.ID = 5

	r.Register(a)
	assert.Panics(t, func() { r.Register(b) })
}

func TestRegistryUnregister(t *testing.T) {
	r := NewRegistry(zap.NewNop())

	e := NewAvatar("ree", 1, 0, 3, 3)
	e.ID = 9
	r.Register(e)
	r.Unregister(9)

	assert.Nil(t, r.Lookup(9))
	assert.Equal(t, 0, r.Len())

	// Second unregister of the same id: flagged no-op.
	r.Unregister(9)
	assert.Equal(t, 0, r.Len())
}
