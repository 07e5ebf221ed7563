package repo

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"hifi-account-api/internal/domain"
)

var storeOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{Name: "user_store_operations_total", Help: "Count of user store loads and saves"},
	[]string{"backend", "op", "result"},
)

func init() { prometheus.MustRegister(storeOps) }

type instrumented struct {
	next    domain.UserStore
	backend string
}

// Instrument 给任意后端加上 Prometheus 计数
func Instrument(s domain.UserStore, backend string) domain.UserStore {
	return &instrumented{next: s, backend: backend}
}

func (i *instrumented) Load(ctx context.Context) ([]domain.User, error) {
	users, err := i.next.Load(ctx)
	storeOps.WithLabelValues(i.backend, "load", result(err)).Inc()
	return users, err
}

func (i *instrumented) Save(ctx context.Context, users []domain.User) error {
	err := i.next.Save(ctx, users)
	storeOps.WithLabelValues(i.backend, "save", result(err)).Inc()
	return err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
