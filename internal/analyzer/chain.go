// Package analyzer turns raw text into segment drafts. A remote completion
// service gives the richest result; a lexical local path and a single
// default segment back it up.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dgnsrekt/murmure-go/internal/segment"
)

// ProduceFunc is the uniform signature of every analysis tier.
type ProduceFunc func(ctx context.Context, text string) ([]segment.Draft, error)

// Producer is one named tier of the chain.
type Producer struct {
	Name    string
	Produce ProduceFunc
}

// Attempt records the outcome of one producer.
type Attempt struct {
	Producer string `json:"producer"`
	Error    string `json:"error,omitempty"`
	Drafts   int    `json:"drafts"`
}

// Outcome is the result of a chain run.
type Outcome struct {
	Drafts   []segment.Draft
	Producer string
	Attempts []Attempt
}

// Degraded reports whether an earlier producer failed before one succeeded.
func (o *Outcome) Degraded() bool {
	return len(o.Attempts) > 1
}

// Chain tries producers in order; the first one returning at least one
// draft wins.
type Chain struct {
	producers []Producer
	logger    *slog.Logger
}

// NewChain creates a chain. Producers with a nil function are skipped.
func NewChain(logger *slog.Logger, producers ...Producer) *Chain {
	c := &Chain{logger: logger}
	for _, p := range producers {
		if p.Produce != nil {
			c.producers = append(c.producers, p)
		}
	}
	return c
}

// Names returns the producer names in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.producers))
	for i, p := range c.producers {
		names[i] = p.Name
	}
	return names
}

// Run executes the chain. Failures of earlier producers are logged and kept
// in the outcome; an error is returned only when every producer failed or
// the context ended.
func (c *Chain) Run(ctx context.Context, text string) (*Outcome, error) {
	out := &Outcome{}
	for _, p := range c.producers {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		drafts, err := p.Produce(ctx, text)
		attempt := Attempt{Producer: p.Name, Drafts: len(drafts)}
		if err != nil {
			attempt.Error = err.Error()
			out.Attempts = append(out.Attempts, attempt)
			c.logger.Warn("analysis producer failed, falling back", "producer", p.Name, "error", err)
			continue
		}
		out.Attempts = append(out.Attempts, attempt)
		if len(drafts) == 0 {
			c.logger.Warn("analysis producer returned no segments", "producer", p.Name)
			continue
		}

		out.Drafts = drafts
		out.Producer = p.Name
		return out, nil
	}
	return out, fmt.Errorf("%w: %v", ErrExhausted, c.Names())
}
