package registry

import (
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/DRSN-tech/supply-registry/internal/clock"
	"github.com/DRSN-tech/supply-registry/internal/domain"
	"github.com/DRSN-tech/supply-registry/pkg/e"
	"github.com/DRSN-tech/supply-registry/pkg/opt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestRegistry() (*Registry, *clock.FakeClock) {
	clk := clock.NewFakeClock(t0)
	return New(clk), clk
}

func widgetPayload() domain.ProductPayload {
	return domain.NewProductPayload("created", "Widget", "Factory A", "Warehouse 1", opt.None[string](), opt.None[string]())
}

func TestRegistry_WidgetLifecycle(t *testing.T) {
	reg, clk := newTestRegistry()

	created, ok := reg.Add(widgetPayload())
	require.True(t, ok)
	assert.Equal(t, uint64(1), created.ID)
	assert.Equal(t, uint64(t0.UnixNano()), created.Timestamp)
	assert.True(t, created.LastUpdate.IsNone())
	assert.True(t, created.Certification.IsNone())
	assert.True(t, created.IoTData.IsNone())

	got, err := reg.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	clk.Advance(time.Minute)
	shipped := widgetPayload()
	shipped.Status = "shipped"
	shipped.CurrentLocation = "Port"

	updated, err := reg.Update(created.ID, shipped)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Timestamp, updated.Timestamp)
	assert.Equal(t, "shipped", updated.Status)
	assert.Equal(t, "Port", updated.CurrentLocation)
	lastUpdate, ok := updated.LastUpdate.Get()
	require.True(t, ok)
	assert.GreaterOrEqual(t, lastUpdate, updated.Timestamp)
	assert.Equal(t, uint64(t0.Add(time.Minute).UnixNano()), lastUpdate)

	deleted, err := reg.Delete(created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, deleted)

	_, err = reg.Get(created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Contains(t, err.Error(), "id=1")
}

func TestRegistry_UpdateReplacesAllMutableFields(t *testing.T) {
	reg, _ := newTestRegistry()

	first := widgetPayload()
	first.Certification = opt.Some("ISO 9001")
	first.IoTData = opt.Some(`{"temp":4.5}`)
	created, ok := reg.Add(first)
	require.True(t, ok)

	second := domain.NewProductPayload("in_transit", "Widget v2", "Factory B", "Truck 7", opt.None[string](), opt.Some(""))
	updated, err := reg.Update(created.ID, second)
	require.NoError(t, err)

	assert.Equal(t, second, updated.Payload())
	assert.True(t, updated.Certification.IsNone(), "absent payload field must clear the stored one")
	iot, ok := updated.IoTData.Get()
	require.True(t, ok, "empty string is a present value")
	assert.Equal(t, "", iot)
}

func TestRegistry_UpdateRefreshesLastUpdateEveryTime(t *testing.T) {
	reg, clk := newTestRegistry()

	created, _ := reg.Add(widgetPayload())

	clk.Advance(time.Second)
	first, err := reg.Update(created.ID, widgetPayload())
	require.NoError(t, err)

	clk.Advance(time.Second)
	second, err := reg.Update(created.ID, widgetPayload())
	require.NoError(t, err)

	firstAt, _ := first.LastUpdate.Get()
	secondAt, _ := second.LastUpdate.Get()
	assert.Greater(t, secondAt, firstAt)
	assert.Equal(t, created.Timestamp, second.Timestamp)
}

func TestRegistry_NotFound(t *testing.T) {
	reg, _ := newTestRegistry()

	_, err := reg.Get(42)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "id=42")

	_, err = reg.Update(42, widgetPayload())
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "id=42")

	_, err = reg.Delete(42)
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "id=42")

	var regErr *domain.Error
	require.True(t, errors.As(err, &regErr))
	assert.Equal(t, domain.KindNotFound, regErr.Kind)
	assert.Equal(t, 0, len(reg.List()))
	assert.Equal(t, uint64(0), reg.Version(), "failed calls must not mutate state")
}

func TestRegistry_DeleteTwice(t *testing.T) {
	reg, _ := newTestRegistry()

	created, _ := reg.Add(widgetPayload())

	_, err := reg.Delete(created.ID)
	require.NoError(t, err)

	_, err = reg.Delete(created.ID)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_IDsAreMonotonicAndNeverReused(t *testing.T) {
	reg, _ := newTestRegistry()

	var issued []uint64
	for i := 0; i < 5; i++ {
		p, ok := reg.Add(widgetPayload())
		require.True(t, ok)
		issued = append(issued, p.ID)
	}

	_, err := reg.Delete(issued[4])
	require.NoError(t, err)
	_, err = reg.Delete(issued[2])
	require.NoError(t, err)

	next, ok := reg.Add(widgetPayload())
	require.True(t, ok)
	for _, id := range issued {
		assert.Greater(t, next.ID, id)
	}

	_, err = reg.Get(issued[4])
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRegistry_ConcurrentAddsYieldDistinctIDs(t *testing.T) {
	reg, _ := newTestRegistry()

	const (
		workers = 8
		perG    = 200
	)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[uint64]struct{}, workers*perG)
	)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				p, ok := reg.Add(widgetPayload())
				if !ok {
					continue
				}
				// параллельные чтения и обновления не должны ломать запись
				_, _ = reg.Get(p.ID)
				_, _ = reg.Update(p.ID, widgetPayload())

				mu.Lock()
				ids[p.ID] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, workers*perG)
	assert.Len(t, reg.List(), workers*perG)
	for id := range ids {
		assert.LessOrEqual(t, id, uint64(workers*perG))
	}
}

func TestRegistry_AddReturnsAbsentWhenIDSpaceExhausted(t *testing.T) {
	reg, _ := newTestRegistry()
	reg.lastID = math.MaxUint64 - 1

	last, ok := reg.Add(widgetPayload())
	require.True(t, ok)
	assert.Equal(t, uint64(math.MaxUint64), last.ID)

	_, ok = reg.Add(widgetPayload())
	assert.False(t, ok)
	assert.Len(t, reg.List(), 1)
}

func TestRegistry_ListIsOrderedByID(t *testing.T) {
	reg, _ := newTestRegistry()

	for i := 0; i < 10; i++ {
		reg.Add(widgetPayload())
	}
	_, err := reg.Delete(3)
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, 9)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}

func TestRegistry_SnapshotRestore(t *testing.T) {
	reg, _ := newTestRegistry()

	for i := 0; i < 3; i++ {
		reg.Add(widgetPayload())
	}
	_, err := reg.Delete(3)
	require.NoError(t, err)

	snap := reg.Snapshot()
	assert.Equal(t, uint64(3), snap.LastID)
	assert.Equal(t, uint64(4), snap.Version)
	require.Len(t, snap.Products, 2)

	restored, _ := newTestRegistry()
	require.NoError(t, restored.Restore(snap))
	assert.Equal(t, uint64(0), restored.Version())
	assert.Equal(t, reg.List(), restored.List())

	next, ok := restored.Add(widgetPayload())
	require.True(t, ok)
	assert.Equal(t, uint64(4), next.ID, "deleted id 3 must not be reissued after restore")
}

func TestRegistry_RestoreNeverMovesCounterBack(t *testing.T) {
	reg, _ := newTestRegistry()
	for i := 0; i < 5; i++ {
		reg.Add(widgetPayload())
	}

	require.NoError(t, reg.Restore(domain.Snapshot{LastID: 2}))

	next, ok := reg.Add(widgetPayload())
	require.True(t, ok)
	assert.Equal(t, uint64(6), next.ID)
}

func TestRegistry_RestoreRejectsCorruptedSnapshot(t *testing.T) {
	cases := map[string]domain.Snapshot{
		"zero id":          {LastID: 1, Products: []domain.Product{{ID: 0}}},
		"id above counter": {LastID: 1, Products: []domain.Product{{ID: 2}}},
		"duplicate id":     {LastID: 2, Products: []domain.Product{{ID: 1}, {ID: 1}}},
	}

	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			reg, _ := newTestRegistry()
			reg.Add(widgetPayload())

			err := reg.Restore(snap)
			require.ErrorIs(t, err, e.ErrCorruptedSnapshot)
			assert.Len(t, reg.List(), 1, "state must stay untouched")
		})
	}
}

func TestRegistry_UpdateAfterClockStepBack(t *testing.T) {
	reg, clk := newTestRegistry()

	created, _ := reg.Add(widgetPayload())

	clk.Advance(-time.Hour)
	updated, err := reg.Update(created.ID, widgetPayload())
	require.NoError(t, err)

	lastUpdate, ok := updated.LastUpdate.Get()
	require.True(t, ok)
	assert.GreaterOrEqual(t, lastUpdate, updated.Timestamp)
}
