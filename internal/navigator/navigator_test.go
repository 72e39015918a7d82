package navigator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buyerSections(calls *[]Section) []Spec {
	record := func(ctx context.Context, t Ticket) error {
		*calls = append(*calls, t.Section)
		return nil
	}
	return []Spec{
		{Section: "browse", Label: "Browse Crops", OnEnter: record},
		{Section: "orders", Label: "My Orders", OnEnter: record},
		{Section: "farmers", Label: "Farmers", OnEnter: record},
		{Section: "wishlist", Label: "Wishlist", OnEnter: record},
		{Section: "profile", Label: "Profile"},
	}
}

func activeCount(cs []Control) int {
	n := 0
	for _, c := range cs {
		if c.Active {
			n++
		}
	}
	return n
}

func TestNavigator_InitialState(t *testing.T) {
	var calls []Section
	n, err := New(buyerSections(&calls)...)
	require.NoError(t, err)

	assert.Equal(t, Section("browse"), n.Active())
	assert.Empty(t, calls, "initial state does not run effects")

	cs := n.Controls()
	assert.Len(t, cs, 5)
	assert.Equal(t, 1, activeCount(cs))
	assert.True(t, cs[0].Active)
}

func TestNavigator_Activate(t *testing.T) {
	var calls []Section
	n := MustNew(buyerSections(&calls)...)

	_, err := n.Activate(context.Background(), "orders")
	require.NoError(t, err)
	assert.True(t, n.IsActive("orders"))
	assert.False(t, n.IsActive("browse"))
	assert.Equal(t, []Section{"orders"}, calls)

	_, err = n.Activate(context.Background(), "profile")
	require.NoError(t, err)
	assert.Equal(t, []Section{"orders"}, calls, "profile has no loader")

	cs := n.Controls()
	assert.Equal(t, 1, activeCount(cs))
	assert.True(t, cs[4].Active)
}

func TestNavigator_UnknownSection(t *testing.T) {
	var calls []Section
	n := MustNew(buyerSections(&calls)...)

	_, err := n.Activate(context.Background(), "settings")
	assert.True(t, errors.Is(err, ErrUnknownSection))
	assert.Equal(t, Section("browse"), n.Active())
}

func TestNavigator_TransitionTable(t *testing.T) {
	n := MustNew(
		Spec{Section: "overview", Next: []Section{"farmers"}},
		Spec{Section: "farmers"},
		Spec{Section: "users"},
	)

	assert.False(t, n.CanActivate("users"))
	_, err := n.Activate(context.Background(), "users")
	assert.True(t, errors.Is(err, ErrTransitionNotAllowed))
	assert.Equal(t, Section("overview"), n.Active())

	_, err = n.Activate(context.Background(), "overview")
	assert.NoError(t, err, "re-entering the active section is always allowed")

	_, err = n.Activate(context.Background(), "farmers")
	require.NoError(t, err)
	_, err = n.Activate(context.Background(), "users")
	assert.NoError(t, err)
}

func TestNavigator_StaleTicket(t *testing.T) {
	n := MustNew(Spec{Section: "crops"}, Spec{Section: "orders"}, Spec{Section: "profile"})

	ordersTicket, err := n.Activate(context.Background(), "orders")
	require.NoError(t, err)
	assert.True(t, n.Current(ordersTicket))

	_, err = n.Activate(context.Background(), "profile")
	require.NoError(t, err)
	assert.False(t, n.Current(ordersTicket))

	again, err := n.Activate(context.Background(), "orders")
	require.NoError(t, err)
	assert.False(t, n.Current(ordersTicket), "an older activation of the same section is stale")
	assert.True(t, n.Current(again))
}

func TestNavigator_LoadErrorKeepsSection(t *testing.T) {
	boom := errors.New("fetch failed")
	n := MustNew(
		Spec{Section: "overview"},
		Spec{Section: "orders", OnEnter: func(ctx context.Context, t Ticket) error { return boom }},
	)

	tk, err := n.Activate(context.Background(), "orders")
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Section("orders"), n.Active())
	assert.True(t, n.Current(tk))
}

func TestNavigator_Reset(t *testing.T) {
	n := MustNew(Spec{Section: "crops"}, Spec{Section: "orders"})
	tk, _ := n.Activate(context.Background(), "orders")
	n.Reset()
	assert.Equal(t, Section("crops"), n.Active())
	assert.False(t, n.Current(tk))
}

func TestNew_Invalid(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, ErrNoSections)

	_, err = New(Spec{Section: "a"}, Spec{Section: "a"})
	assert.Error(t, err)

	_, err = New(Spec{Section: "a", Next: []Section{"zzz"}})
	assert.ErrorIs(t, err, ErrUnknownSection)

	assert.Panics(t, func() { MustNew() })
}
