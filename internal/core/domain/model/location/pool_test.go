package location_test

import (
	"testing"

	"canistertransfer/internal/core/domain/model/kernel"
	"canistertransfer/internal/core/domain/model/location"
	"canistertransfer/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustSlot(
	t *testing.T,
	id kernel.LocationID,
	level kernel.DrawerLevel,
	capacity kernel.CanisterType,
	occ *location.Occupant,
) *location.Slot {
	t.Helper()
	s, err := location.NewSlot(id, 1, 1, level, capacity, occ)
	require.NoError(t, err)
	return s
}

func key(typ kernel.CanisterType, tier location.Tier) location.PoolKey {
	return location.PoolKey{Device: 1, Quadrant: 1, Type: typ, Tier: tier}
}

func TestNewSlot_DerivesTier(t *testing.T) {
	tests := []struct {
		name string
		occ  *location.Occupant
		want location.Tier
	}{
		{"empty", nil, location.Empty},
		{"unreserved", &location.Occupant{Canister: 1, Type: kernel.Small}, location.UnreservedNonDelicate},
		{"unreserved delicate", &location.Occupant{Canister: 1, Type: kernel.Small, Delicate: true}, location.UnreservedDelicate},
		{"slow mover", &location.Occupant{Canister: 1, Type: kernel.Small, Reserved: true, SlowMover: true}, location.ReservedSlowMover},
		{"reserved", &location.Occupant{Canister: 1, Type: kernel.Small, Reserved: true}, location.ReservedNonSlowMover},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustSlot(t, 1, 1, kernel.Small, tt.occ)
			assert.Equal(t, tt.want, s.Tier())
		})
	}
}

func TestNewSlot_Rejects(t *testing.T) {
	_, err := location.NewSlot(0, 1, 1, 1, kernel.Small, nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = location.NewSlot(1, 1, 1, 1, kernel.Small, &location.Occupant{Canister: 3, Type: kernel.Big})
	require.ErrorIs(t, err, location.ErrOccupantDoesNotFit)
}

func TestPool_Ordering(t *testing.T) {
	pool, err := location.NewPool([]*location.Slot{
		mustSlot(t, 30, 3, kernel.Small, nil),
		mustSlot(t, 10, 1, kernel.Small, nil),
		mustSlot(t, 20, 2, kernel.Small, nil),
	})
	require.NoError(t, err)

	front, ok := pool.PopFront(key(kernel.Small, location.Empty), nil)
	require.True(t, ok)
	assert.Equal(t, kernel.LocationID(10), front.ID())

	back, ok := pool.PopBack(key(kernel.Small, location.Empty), nil)
	require.True(t, ok)
	assert.Equal(t, kernel.LocationID(30), back.ID())

	assert.Equal(t, 1, pool.Available(key(kernel.Small, location.Empty)))
}

func TestPool_SlowMoversByDrugUsage(t *testing.T) {
	slow := func(id kernel.LocationID, usage int) *location.Slot {
		return mustSlot(t, id, 1, kernel.Small, &location.Occupant{
			Canister: kernel.CanisterID(id), Type: kernel.Small, Reserved: true, SlowMover: true, DrugUsage: usage,
		})
	}
	pool, err := location.NewPool([]*location.Slot{slow(1, 9), slow(2, 1), slow(3, 5)})
	require.NoError(t, err)

	var got []int
	for {
		s, ok := pool.PopFront(key(kernel.Small, location.ReservedSlowMover), nil)
		if !ok {
			break
		}
		got = append(got, s.Occupant().DrugUsage)
	}
	assert.Equal(t, []int{1, 5, 9}, got)
}

func TestPool_NoDoubleAssignment(t *testing.T) {
	pool, err := location.NewPool([]*location.Slot{mustSlot(t, 1, 1, kernel.Small, nil)})
	require.NoError(t, err)

	assert.True(t, pool.Take(1))
	assert.False(t, pool.Take(1))
	_, ok := pool.PopFront(key(kernel.Small, location.Empty), nil)
	assert.False(t, ok)
	assert.False(t, pool.Take(99))
}

func TestPool_AcceptFilter(t *testing.T) {
	pool, err := location.NewPool([]*location.Slot{
		mustSlot(t, 1, 6, kernel.Small, nil),
		mustSlot(t, 2, 2, kernel.Small, nil),
	})
	require.NoError(t, err)

	s, ok := pool.PopFront(key(kernel.Small, location.Empty), func(s *location.Slot) bool {
		return s.DrawerLevel() >= 5
	})
	require.True(t, ok)
	assert.Equal(t, kernel.LocationID(1), s.ID())
}

func TestPool_Release(t *testing.T) {
	occupied := mustSlot(t, 7, 8, kernel.Small, &location.Occupant{Canister: 70, Type: kernel.Small, Delicate: true})
	pool, err := location.NewPool([]*location.Slot{occupied})
	require.NoError(t, err)

	_, ok := pool.Release(7)
	require.False(t, ok, "only taken locations can be released")

	require.True(t, pool.Take(7))
	freed, ok := pool.Release(7)
	require.True(t, ok)
	assert.Equal(t, location.Freed, freed.Tier())
	assert.Nil(t, freed.Occupant())

	assert.Equal(t, 0, pool.Available(key(kernel.Small, location.UnreservedDelicate)))
	assert.Equal(t, 1, pool.EmptyCount(1, 1))

	got, ok := pool.PopFront(key(kernel.Small, location.Freed), nil)
	require.True(t, ok)
	assert.Equal(t, kernel.LocationID(7), got.ID())
	assert.Equal(t, 0, pool.EmptyCount(1, 1))
}

func TestNewPool_DuplicateLocation(t *testing.T) {
	_, err := location.NewPool([]*location.Slot{
		mustSlot(t, 1, 1, kernel.Small, nil),
		mustSlot(t, 1, 2, kernel.Small, nil),
	})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
