// Package agents holds the domain answer handlers the orchestration
// router dispatches to. Each handler owns one or more service domains
// and turns a question plus retrieved context into a resident-facing
// answer. A handler that cannot answer without context signals
// domain.ErrEmptyContext so the router can fall back to the general
// handler; collaborator failures propagate as domain.ErrCollaborator.
package agents

import (
	"context"
	"fmt"

	"github.com/wakura-mitchell/masvingo-civic-assistant/internal/core/domain"
)

// Handler answers questions for one or more service domains.
type Handler interface {
	Name() string
	Domains() []domain.DomainLabel
	Handle(ctx context.Context, question string, items []domain.RetrievedItem) (string, error)
}

// Registry resolves the handler for a classified domain. Domains with
// no dedicated handler resolve to the general handler, so dispatch
// never fails on an unregistered label.
type Registry struct {
	byDomain map[domain.DomainLabel]Handler
	general  Handler
}

// NewRegistry builds a registry around the mandatory general handler.
func NewRegistry(general Handler) (*Registry, error) {
	if general == nil {
		return nil, fmt.Errorf("general handler is required")
	}
	reg := &Registry{
		byDomain: map[domain.DomainLabel]Handler{},
		general:  general,
	}
	if err := reg.Register(general); err != nil {
		return nil, err
	}
	return reg, nil
}

// Register binds the handler to every domain it declares. Registering
// two handlers for the same domain is a wiring mistake and fails.
func (r *Registry) Register(h Handler) error {
	if h == nil {
		return fmt.Errorf("nil handler")
	}
	for _, label := range h.Domains() {
		if !label.Valid() {
			return fmt.Errorf("handler %q declares unknown domain %q", h.Name(), label)
		}
		if existing, ok := r.byDomain[label]; ok && existing != h {
			return fmt.Errorf("domain %q already handled by %q", label, existing.Name())
		}
		r.byDomain[label] = h
	}
	return nil
}

// Resolve returns the handler for the label, falling back to the
// general handler. The second return reports whether a dedicated
// handler matched.
func (r *Registry) Resolve(label domain.DomainLabel) (Handler, bool) {
	if h, ok := r.byDomain[label]; ok {
		return h, h != r.general
	}
	return r.general, false
}

// General returns the fallback handler.
func (r *Registry) General() Handler {
	return r.general
}
