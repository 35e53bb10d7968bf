package coordinator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы загрузки подписки для метрики entitlement_fetch_total.
const (
	outcomeOK            = "ok"
	outcomeNotFound      = "not_found"
	outcomeCacheFallback = "cache_fallback"
	outcomeError         = "error"
)

var entitlementFetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "entitlement_fetch_total",
	Help: "Number of completed entitlement fetch attempts by outcome.",
}, []string{"outcome"})
