// Package health aggregates dependency probes into one report.
package health

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Status is the aggregated service health.
type Status string

const (
	// Healthy indicates every component answered.
	Healthy Status = "ok"
	// Degraded indicates search still serves, with reduced quality.
	Degraded Status = "degraded"
	// Unhealthy indicates search cannot serve at all.
	Unhealthy Status = "error"
)

// CheckResult is one component's probe outcome.
type CheckResult string

const (
	// CheckOK indicates a passing probe.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing probe.
	CheckError CheckResult = "error"
)

// Component names as reported by the health endpoint.
const (
	componentStore     = "store"
	componentCorpus    = "corpus"
	componentEmbedding = "embedding"
	componentRerank    = "rerank"
)

// Report aggregates component probe results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service runs the dependency probes. A corpus or embedding failure makes
// the report unhealthy because retrieval cannot run without them; a store
// or rerank failure only degrades it, since search then falls back to
// default preferences and hybrid-only ranking.
type Service struct {
	store     StorePinger
	corpus    Checker
	embedding Checker
	rerank    Checker
}

// New creates a Service. Nil components are skipped.
func New(store StorePinger, corpus, embedding, rerank Checker) *Service {
	return &Service{
		store:     store,
		corpus:    corpus,
		embedding: embedding,
		rerank:    rerank,
	}
}

type probe struct {
	name     string
	critical bool
	run      func(context.Context) error
}

// Check probes all configured components concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var probes []probe
	if s.store != nil {
		probes = append(probes, probe{componentStore, false, s.store.Ping})
	}
	if s.corpus != nil {
		probes = append(probes, probe{componentCorpus, true, s.corpus.HealthCheck})
	}
	if s.embedding != nil {
		probes = append(probes, probe{componentEmbedding, true, s.embedding.HealthCheck})
	}
	if s.rerank != nil {
		probes = append(probes, probe{componentRerank, false, s.rerank.HealthCheck})
	}

	errs := make([]error, len(probes))
	var g errgroup.Group
	for i, p := range probes {
		i, p := i, p
		g.Go(func() error {
			errs[i] = p.run(ctx)
			return nil
		})
	}
	_ = g.Wait() // probe failures land in errs, never in the group

	report := Report{Status: Healthy, Checks: make(map[string]CheckResult, len(probes))}
	for i, p := range probes {
		if errs[i] == nil {
			report.Checks[p.name] = CheckOK
			continue
		}
		report.Checks[p.name] = CheckError
		if p.critical {
			report.Status = Unhealthy
		} else if report.Status == Healthy {
			report.Status = Degraded
		}
	}
	return report
}
