package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusAwaitingPayment, OrderStatusAwaitingReview, true},
		{OrderStatusAwaitingPayment, OrderStatusCancelled, true},
		{OrderStatusAwaitingPayment, OrderStatusInProgress, false},
		{OrderStatusAwaitingPayment, OrderStatusCompleted, false},

		{OrderStatusAwaitingReview, OrderStatusInProgress, true},
		{OrderStatusAwaitingReview, OrderStatusCompleted, true},
		{OrderStatusAwaitingReview, OrderStatusCancelled, true},
		{OrderStatusAwaitingReview, OrderStatusAwaitingPayment, false},

		{OrderStatusInProgress, OrderStatusCompleted, true},
		{OrderStatusInProgress, OrderStatusCancelled, false},
		{OrderStatusInProgress, OrderStatusAwaitingPayment, false},
	}

	for _, c := range cases {
		require.Equal(t, c.allowed, c.from.CanTransitionTo(c.to),
			"%s -> %s", c.from, c.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	terminal := []OrderStatus{OrderStatusCompleted, OrderStatusCancelled}
	all := []OrderStatus{
		OrderStatusAwaitingPayment,
		OrderStatusAwaitingReview,
		OrderStatusInProgress,
		OrderStatusCompleted,
		OrderStatusCancelled,
	}

	for _, from := range terminal {
		require.True(t, from.IsTerminal())
		for _, to := range all {
			require.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}

	require.False(t, OrderStatusAwaitingPayment.IsTerminal())
	require.False(t, OrderStatusAwaitingReview.IsTerminal())
	require.False(t, OrderStatusInProgress.IsTerminal())
}

func TestStatusAndMethodLabels(t *testing.T) {
	require.Equal(t, "ожидает оплаты", OrderStatusAwaitingPayment.Label())
	require.Equal(t, "отменён", OrderStatusCancelled.Label())
	require.Equal(t, "Банк", PaymentMethodBank.Label())
	require.Equal(t, "не указан", PaymentMethodNone.Label())
}
