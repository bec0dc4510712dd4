package model

// WatchState is the payment watcher's state machine.
type WatchState string

const (
	WatchPolling       WatchState = "polling"
	WatchSettledOK     WatchState = "settled-success"
	WatchSettledFailed WatchState = "settled-failure"
	WatchTimedOut      WatchState = "timed-out"
	WatchCancelled     WatchState = "cancelled"
)

// PaymentEvent is pushed to the owning user over the websocket whenever the
// watcher observes a transition. RefreshCart tells the SPA to re-fetch its
// merged cart (set on successful settlement, which empties cart state
// upstream).
type PaymentEvent struct {
	Type        string     `json:"type"` // always "payment"
	OrderID     string     `json:"order_id"`
	State       WatchState `json:"state"`
	Status      string     `json:"status,omitempty"`
	GrossAmount float64    `json:"gross_amount,omitempty"`
	RefreshCart bool       `json:"refresh_cart,omitempty"`
	Message     string     `json:"message,omitempty"`
}
