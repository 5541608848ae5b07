package ecs

import (
	"github.com/kamstrup/intmap"
	"go.uber.org/zap"
)

// World composes an EntityManager with a table of resources: singleton
// values keyed by type that are not attached to any entity.
type World struct {
	manager   *EntityManager
	resources *intmap.Map[uint64, any]
	log       *zap.Logger
}

// NewWorld creates a world and its entity manager.
func NewWorld(cfg Config, opts ...Option) *World {
	o := buildOptions(opts)
	return &World{
		manager:   NewEntityManager(cfg, opts...),
		resources: intmap.New[uint64, any](16),
		log:       o.logger,
	}
}

// EntityManager returns the world's entity manager.
func (w *World) EntityManager() *EntityManager {
	return w.manager
}
