package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// operations counts authentication operations by outcome status.
var operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "authd_auth_operations_total",
	Help: "Total number of authentication operations by operation and status",
}, []string{"operation", "status"})
