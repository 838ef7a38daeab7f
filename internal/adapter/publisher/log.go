package publisher

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/core/domain"
)

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	log *logrus.Logger
}

func NewLogPublisher(log *logrus.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, intents []domain.Intent) error {
	for _, in := range intents {
		p.log.WithFields(logrus.Fields{
			"kind":        in.Kind,
			"entity":      in.Entity,
			"entity_id":   in.EntityID,
			"property_id": in.PropertyID,
			"status":      in.Status,
		}).Info("intent")
	}

	return nil
}
