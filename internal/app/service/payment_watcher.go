package service

import (
	"context"
	"sync"
	"time"

	"github.com/alienstore/storefront-gateway/internal/app/model"
	"github.com/alienstore/storefront-gateway/internal/app/repository"
	"github.com/alienstore/storefront-gateway/pkg/logger"
	"github.com/alienstore/storefront-gateway/pkg/storeapi"
)

// PaymentAPI is the subset of the upstream client the watcher uses.
type PaymentAPI interface {
	PaymentStatus(ctx context.Context, token, orderID string) (*storeapi.PaymentStatusInfo, error)
}

// Notifier pushes events to a user's connected clients.
type Notifier interface {
	PushToUser(userID uint, event interface{})
}

// Clock abstracts time so watcher tests can drive ticks manually.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) Chan() <-chan time.Time { return t.ticker.C }
func (t *realTicker) Stop()                  { t.ticker.Stop() }

// NewRealClock returns a Clock backed by the wall clock.
func NewRealClock() Clock { return realClock{} }

// WatchRequest identifies the order to watch plus what was bought, so the
// local order record can be filled in when the payment settles.
type WatchRequest struct {
	OrderID     string
	ProductID   uint
	ProductName string
	Quantity    int
}

// PaymentWatcher polls the upstream payment status for orders awaiting
// gateway confirmation and pushes state transitions to the owning user.
// Each user has at most one active watch; starting a new one cancels the
// previous.
type PaymentWatcher struct {
	api      PaymentAPI
	records  repository.OrderRecordRepository
	notifier Notifier
	clock    Clock

	interval time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	watches map[uint]*watch
	wg      sync.WaitGroup
}

type watch struct {
	orderID string
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPaymentWatcher(api PaymentAPI, records repository.OrderRecordRepository, notifier Notifier, clock Clock, interval, timeout time.Duration) *PaymentWatcher {
	return &PaymentWatcher{
		api:      api,
		records:  records,
		notifier: notifier,
		clock:    clock,
		interval: interval,
		timeout:  timeout,
		watches:  make(map[uint]*watch),
	}
}

// Watch starts polling the order's payment status for the session's user.
// Any watch already running for that user is cancelled first.
func (w *PaymentWatcher) Watch(sess model.SessionContext, req WatchRequest) {
	ctx, cancel := context.WithCancel(context.Background())
	next := &watch{orderID: req.OrderID, cancel: cancel, done: make(chan struct{})}

	w.mu.Lock()
	prev := w.watches[sess.UserID]
	w.watches[sess.UserID] = next
	w.mu.Unlock()

	if prev != nil {
		prev.cancel()
		<-prev.done
	}

	logger.Info("Payment watch started", map[string]interface{}{
		"user_id":  sess.UserID,
		"order_id": req.OrderID,
	})

	w.wg.Add(1)
	go w.run(ctx, sess, req, next)
}

// Cancel stops the user's active watch, if any.
func (w *PaymentWatcher) Cancel(userID uint) error {
	w.mu.Lock()
	active := w.watches[userID]
	w.mu.Unlock()

	if active == nil {
		return ErrWatchNotFound
	}
	active.cancel()
	<-active.done
	return nil
}

// Active returns the order id of the user's running watch.
func (w *PaymentWatcher) Active(userID uint) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if wa, ok := w.watches[userID]; ok {
		return wa.orderID, true
	}
	return "", false
}

// Stop cancels every running watch and waits for the loops to exit. Used on
// server shutdown.
func (w *PaymentWatcher) Stop() {
	w.mu.Lock()
	for _, wa := range w.watches {
		wa.cancel()
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *PaymentWatcher) run(ctx context.Context, sess model.SessionContext, req WatchRequest, self *watch) {
	defer w.wg.Done()
	defer close(self.done)
	defer w.remove(sess.UserID, self)

	deadline := w.clock.Now().Add(w.timeout)
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.emit(sess.UserID, model.PaymentEvent{
				Type:    "payment",
				OrderID: req.OrderID,
				State:   model.WatchCancelled,
			})
			return

		case <-ticker.Chan():
			// The deadline is checked before querying, so a status call is
			// never issued for an already-expired watch.
			if w.clock.Now().After(deadline) {
				logger.Warn("Payment watch timed out", map[string]interface{}{
					"user_id":  sess.UserID,
					"order_id": req.OrderID,
				})
				w.emit(sess.UserID, model.PaymentEvent{
					Type:    "payment",
					OrderID: req.OrderID,
					State:   model.WatchTimedOut,
					Message: "Status pembayaran belum dikonfirmasi. Silakan cek riwayat pesanan Anda",
				})
				return
			}

			info, err := w.api.PaymentStatus(ctx, sess.Token, req.OrderID)
			if err != nil {
				// Transient upstream failures never end a watch; the
				// deadline bounds how long they are retried.
				logger.Warn("Payment status query failed, retrying", map[string]interface{}{
					"user_id":  sess.UserID,
					"order_id": req.OrderID,
					"error":    err.Error(),
				})
				continue
			}

			if !storeapi.IsTerminal(info.Status) {
				logger.Debug("Payment still pending", map[string]interface{}{
					"user_id":  sess.UserID,
					"order_id": req.OrderID,
					"status":   info.Status,
				})
				continue
			}

			w.settle(sess, req, info)
			return
		}
	}
}

func (w *PaymentWatcher) settle(sess model.SessionContext, req WatchRequest, info *storeapi.PaymentStatusInfo) {
	event := model.PaymentEvent{
		Type:    "payment",
		OrderID: req.OrderID,
		Status:  info.Status,
	}
	if info.Meta != nil {
		event.GrossAmount = info.Meta.GrossAmount
	}

	// Only a successful payment leaves a local order record; failed or
	// expired payments never owned an order worth remembering.
	if storeapi.IsSuccess(info.Status) {
		record := &model.OrderRecord{
			UserID:      sess.UserID,
			OrderID:     req.OrderID,
			ProductID:   req.ProductID,
			ProductName: req.ProductName,
			Quantity:    req.Quantity,
			Status:      info.Status,
		}
		if info.Meta != nil {
			record.GrossAmount = info.Meta.GrossAmount
			record.PaymentType = info.Meta.PaymentType
			record.Currency = info.Meta.Currency
		}
		if err := w.records.Create(record); err != nil {
			logger.Error("Failed to record settled order", err, map[string]interface{}{
				"user_id":  sess.UserID,
				"order_id": req.OrderID,
			})
		}

		event.State = model.WatchSettledOK
		event.RefreshCart = true
		event.Message = "Pembayaran berhasil"
	} else {
		event.State = model.WatchSettledFailed
		event.Message = "Pembayaran gagal atau dibatalkan"
	}

	logger.Info("Payment watch settled", map[string]interface{}{
		"user_id":  sess.UserID,
		"order_id": req.OrderID,
		"status":   info.Status,
		"state":    string(event.State),
	})
	w.emit(sess.UserID, event)
}

func (w *PaymentWatcher) emit(userID uint, event model.PaymentEvent) {
	if w.notifier != nil {
		w.notifier.PushToUser(userID, event)
	}
}

// remove clears the registry entry, but only if it still points at this
// watch; a replacement started meanwhile must not be evicted.
func (w *PaymentWatcher) remove(userID uint, self *watch) {
	w.mu.Lock()
	if w.watches[userID] == self {
		delete(w.watches, userID)
	}
	w.mu.Unlock()
}
