// Package health reports process liveness and per-dependency readiness.
package health

import (
	"context"
	"database/sql"
	"time"

	"tailor-backend/internal/llm"
	"tailor-backend/internal/shared/storage/object"
)

const checkTimeout = 2 * time.Second

// Service runs the dependency checks behind the readiness endpoint. Any
// field may be nil; absent dependencies are skipped rather than reported.
type Service struct {
	DB        *sql.DB
	Store     object.ObjectStore
	Generator llm.Client
}

// Check is one dependency's readiness result.
type Check struct {
	Name  string `json:"name"`
	Ready bool   `json:"ready"`
	Error string `json:"error,omitempty"`
}

// Readiness probes each configured dependency. The generation service is
// reported but never blocks readiness: jobs complete degraded without it,
// so a down generator must not take the API out of rotation.
func (s *Service) Readiness(ctx context.Context) (bool, []Check) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	ready := true
	var checks []Check

	if s.DB != nil {
		check := Check{Name: "database", Ready: true}
		if err := s.DB.PingContext(ctx); err != nil {
			check.Ready = false
			check.Error = err.Error()
			ready = false
		}
		checks = append(checks, check)
	}

	if s.Store != nil {
		check := Check{Name: "object_store", Ready: true}
		if prober, ok := s.Store.(object.Prober); ok {
			if err := prober.Probe(ctx); err != nil {
				check.Ready = false
				check.Error = err.Error()
				ready = false
			}
		}
		checks = append(checks, check)
	}

	if s.Generator != nil {
		check := Check{Name: "generator", Ready: true}
		if pinger, ok := s.Generator.(llm.Pinger); ok {
			if err := pinger.Ping(ctx); err != nil {
				check.Ready = false
				check.Error = err.Error()
			}
		}
		checks = append(checks, check)
	}

	return ready, checks
}
