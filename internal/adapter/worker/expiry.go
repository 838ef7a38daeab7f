package worker

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

type PaymentExpirer interface {
	ExpireStalePayments(ctx context.Context) (int, error)
}

// ExpiryWorker periodically releases rooms held by bookings whose payment
// window ran out.
type ExpiryWorker struct {
	expirer  PaymentExpirer
	interval time.Duration
	log      *logrus.Logger
	expired  prometheus.Counter
}

func NewExpiryWorker(expirer PaymentExpirer, interval time.Duration, log *logrus.Logger, expired prometheus.Counter) *ExpiryWorker {
	return &ExpiryWorker{expirer: expirer, interval: interval, log: log, expired: expired}
}

// Run blocks until ctx is cancelled.
func (w *ExpiryWorker) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Infof("Background payment expiry started (every %s)", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Stopping background payment expiry...")
			return
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

func (w *ExpiryWorker) Sweep(ctx context.Context) {
	n, err := w.expirer.ExpireStalePayments(ctx)
	if err != nil {
		w.log.WithError(err).Error("payment expiry sweep failed")
		return
	}

	if n > 0 {
		w.log.WithField("cancelled", n).Info("expired unpaid bookings")
		if w.expired != nil {
			w.expired.Add(float64(n))
		}
	}
}
