package model

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusAwaitingPayment OrderStatus = "awaiting_payment"
	OrderStatusAwaitingReview  OrderStatus = "awaiting_review"
	OrderStatusInProgress      OrderStatus = "in_progress"
	OrderStatusCompleted       OrderStatus = "completed"
	OrderStatusCancelled       OrderStatus = "cancelled"
)

// transitions encodes the allowed lifecycle moves. Completed and cancelled are
// terminal: nothing resurrects an order out of them.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusAwaitingPayment: {OrderStatusAwaitingReview, OrderStatusCancelled},
	OrderStatusAwaitingReview:  {OrderStatusInProgress, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusInProgress:      {OrderStatusCompleted},
	OrderStatusCompleted:       {},
	OrderStatusCancelled:       {},
}

// CanTransitionTo reports whether moving to next is a legal lifecycle step.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Label returns the Russian display name of the status.
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusAwaitingPayment:
		return "ожидает оплаты"
	case OrderStatusAwaitingReview:
		return "ожидает проверки"
	case OrderStatusInProgress:
		return "в работе"
	case OrderStatusCompleted:
		return "выполнен"
	case OrderStatusCancelled:
		return "отменён"
	}
	return string(s)
}

// Emoji returns the status marker used in order lists.
func (s OrderStatus) Emoji() string {
	switch s {
	case OrderStatusAwaitingPayment:
		return "🟡"
	case OrderStatusAwaitingReview:
		return "🟠"
	case OrderStatusInProgress:
		return "🔵"
	case OrderStatusCompleted:
		return "🟢"
	case OrderStatusCancelled:
		return "🔴"
	}
	return "⚪️"
}

// PaymentMethod is the rail the buyer claims to have paid through.
type PaymentMethod string

const (
	PaymentMethodNone PaymentMethod = ""
	PaymentMethodTON  PaymentMethod = "ton"
	PaymentMethodUSDT PaymentMethod = "usdt"
	PaymentMethodBank PaymentMethod = "bank"
)

// Label returns the Russian display name of the payment rail.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentMethodTON:
		return "TON"
	case PaymentMethodUSDT:
		return "USDT"
	case PaymentMethodBank:
		return "Банк"
	case PaymentMethodNone:
		return "не указан"
	}
	return string(m)
}

// Order is one top-up purchase. IDs are assigned by the store from a
// monotonically increasing counter and encoded as strings.
type Order struct {
	ID            string        `json:"id"`
	UserID        int64         `json:"user_id"`
	Game          string        `json:"game"`
	Currency      string        `json:"currency"`
	Amount        float64       `json:"amount"`
	GameID        string        `json:"game_id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        OrderStatus   `json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
