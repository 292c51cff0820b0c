package service

import (
	"context"
	"errors"
	"time"

	"github.com/ds124wfegd/flux-ideal-size/internal/entity"
	"github.com/ds124wfegd/flux-ideal-size/internal/pkg/node"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultListLimit = 50

func (s *sizeService) ListNodes() []node.Info {
	return s.registry.List()
}

func (s *sizeService) GetNode(nodeType string) (node.Info, error) {
	n, err := s.registry.Get(nodeType)
	if err != nil {
		return node.Info{}, err
	}
	return n.Info(), nil
}

// Invoke evaluates a node. Only node lookup, field decoding and the calculation itself
// can fail the call; cache, history and event failures are logged.
func (s *sizeService) Invoke(ctx context.Context, nodeType string, raw map[string]interface{}) (*entity.Invocation, error) {
	n, err := s.registry.Get(nodeType)
	if err != nil {
		return nil, err
	}

	fields, err := node.Decode(n.Info().Inputs, raw)
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{"node_type": nodeType, "inputs": fields.Key()})
	cacheKey := nodeType + ":" + fields.Key()

	inv := &entity.Invocation{
		ID:        uuid.New().String(),
		NodeType:  nodeType,
		Inputs:    fields,
		CreatedAt: time.Now().UTC(),
	}

	size, err := s.cache.Get(ctx, cacheKey)
	switch {
	case err == nil:
		inv.Cached = true
	case errors.Is(err, entity.ErrCacheMiss):
	default:
		log.WithError(err).Warn("Result cache lookup failed")
	}

	if !inv.Cached {
		size, err = n.Invoke(ctx, fields)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, cacheKey, size); err != nil {
			log.WithError(err).Warn("Result cache store failed")
		}
	}
	inv.Result = size

	if err := s.history.Save(ctx, inv); err != nil {
		log.WithError(err).Error("Failed to save invocation")
	}

	event := entity.InvocationEvent{
		InvocationID: inv.ID,
		NodeType:     nodeType,
		Width:        size.Width,
		Height:       size.Height,
		Timestamp:    inv.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		log.WithError(err).Warn("Failed to publish invocation event")
	}

	log.WithFields(logrus.Fields{
		"invocation_id": inv.ID,
		"width":         size.Width,
		"height":        size.Height,
		"cached":        inv.Cached,
	}).Info("Ideal size computed")

	return inv, nil
}

func (s *sizeService) GetInvocation(ctx context.Context, id string) (*entity.Invocation, error) {
	return s.history.FindByID(ctx, id)
}

func (s *sizeService) ListInvocations(ctx context.Context, limit int) ([]entity.Invocation, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.history.List(ctx, limit)
}
