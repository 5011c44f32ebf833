package memory

import (
	"context"
	"errors"
	"slices"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/order-tracking/internal/core/domain"
)

func draft(product, by string) domain.OrderDraft {
	return domain.OrderDraft{Product: product, Quantity: 1, Price: 1.5, CreatedBy: by}
}

func TestOrderLedger_InsertAssignsSequentialIDs(t *testing.T) {
	l := NewOrderLedger()
	ctx := context.Background()

	first, err := l.Insert(ctx, domain.OrderDraft{Product: "Widget", Quantity: 2, Price: 9.99, CreatedBy: "intern"})
	require.NoError(t, err)
	second, err := l.Insert(ctx, draft("Gadget", "admin"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "Widget", first.Product)
	assert.Equal(t, 2, first.Quantity)
	assert.Equal(t, 9.99, first.Price)
	assert.Equal(t, "intern", first.CreatedBy)
	assert.Equal(t, domain.StatusCompleted, first.Status)
	assert.False(t, first.CreatedAt.IsZero())
}

func TestOrderLedger_RejectedDraftDoesNotConsumeID(t *testing.T) {
	l := NewOrderLedger()
	ctx := context.Background()

	_, err := l.Insert(ctx, domain.OrderDraft{Product: "Widget", Quantity: 0, Price: 1, CreatedBy: "intern"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = l.Insert(ctx, domain.OrderDraft{Product: "Widget", Quantity: 1, Price: -0.01, CreatedBy: "intern"})
	require.Error(t, err)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	require.Len(t, ve.Fields, 1)
	assert.Equal(t, "price", ve.Fields[0].Field)

	o, err := l.Insert(ctx, draft("Widget", "intern"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), o.ID)

	n, err := l.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestOrderLedger_ConcurrentInsertsAreContiguous(t *testing.T) {
	l := NewOrderLedger()
	ctx := context.Background()

	const workers, perWorker = 16, 50
	ids := make(chan int64, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				// every other insert is invalid and must not take an id
				if i%2 == 1 {
					_, _ = l.Insert(ctx, domain.OrderDraft{Product: "bad", Quantity: 0, CreatedBy: "x"})
				}
				o, err := l.Insert(ctx, draft("p", "member"))
				if err != nil {
					t.Errorf("insert: %v", err)
					return
				}
				ids <- o.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	got := make([]int64, 0, workers*perWorker)
	for id := range ids {
		got = append(got, id)
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })

	require.Len(t, got, workers*perWorker)
	for i, id := range got {
		require.Equal(t, int64(i+1), id)
	}

	// ledger order matches id order
	var prev int64
	for o := range l.ListFor(ctx, "", domain.RoleAdmin) {
		require.Greater(t, o.ID, prev)
		prev = o.ID
	}
}

func TestOrderLedger_ListForScopesByRole(t *testing.T) {
	l := NewOrderLedger()
	ctx := context.Background()

	for _, by := range []string{"member-x", "member-y", "member-x", "admin"} {
		_, err := l.Insert(ctx, draft("p-"+by, by))
		require.NoError(t, err)
	}

	var mine []int64
	for o := range l.ListFor(ctx, "member-x", domain.RoleMember) {
		assert.Equal(t, "member-x", o.CreatedBy)
		mine = append(mine, o.ID)
	}
	assert.Equal(t, []int64{1, 3}, mine)

	var all []int64
	for o := range l.ListFor(ctx, "admin", domain.RoleAdmin) {
		all = append(all, o.ID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4}, all)

	none := slices.Collect(l.ListFor(ctx, "nobody", domain.RoleMember))
	assert.Empty(t, none)
}

func TestOrderLedger_ListForIsRestartable(t *testing.T) {
	l := NewOrderLedger()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := l.Insert(ctx, draft("p", "a"))
		require.NoError(t, err)
	}

	seq := l.ListFor(ctx, "a", domain.RoleMember)

	// stop early, then range again from the start
	for o := range seq {
		assert.Equal(t, int64(1), o.ID)
		break
	}
	assert.Len(t, slices.Collect(seq), 3)

	// an insert after the sequence was built is visible on the next pass
	_, err := l.Insert(ctx, draft("p", "a"))
	require.NoError(t, err)
	assert.Len(t, slices.Collect(seq), 4)
}

func TestOrderLedger_Get(t *testing.T) {
	l := NewOrderLedger()
	ctx := context.Background()
	_, err := l.Insert(ctx, draft("Widget", "a"))
	require.NoError(t, err)

	o, err := l.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Widget", o.Product)

	for _, id := range []int64{0, -1, 2} {
		_, err := l.Get(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	}
}
