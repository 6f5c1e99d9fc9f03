// Package metrics объявляет счётчики Prometheus приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения метки outcome.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	// QueriesTotal выполненные запросы каталога по id и исходу.
	QueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "awards",
		Name:      "queries_total",
		Help:      "Dashboard queries by query id and outcome.",
	}, []string{"query_id", "outcome"})

	// LoginsTotal попытки входа.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "awards",
		Name:      "logins_total",
		Help:      "Login attempts by outcome.",
	}, []string{"outcome"})

	// RegistrationsTotal попытки регистрации.
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "awards",
		Name:      "registrations_total",
		Help:      "Registration attempts by outcome.",
	}, []string{"outcome"})
)
