package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/stay_engine/internal/core/domain"
	"github.com/srgjo27/stay_engine/internal/core/ports"
)

func buildIntents(kinds []domain.IntentKind, entity string, id, propertyID uuid.UUID, status string, now time.Time) []domain.Intent {
	intents := make([]domain.Intent, 0, len(kinds))
	for _, k := range kinds {
		intents = append(intents, domain.Intent{
			Kind:       k,
			Entity:     entity,
			EntityID:   id,
			PropertyID: propertyID,
			Status:     status,
			CreatedAt:  now,
		})
	}

	return intents
}

// publishIntents runs after the write has committed, so a delivery failure
// is logged and never undoes the state change.
func publishIntents(ctx context.Context, pub ports.IntentPublisher, log *logrus.Logger, intents []domain.Intent) {
	if pub == nil || len(intents) == 0 {
		return
	}

	if err := pub.Publish(ctx, intents); err != nil {
		log.WithFields(logrus.Fields{
			"entity":    intents[0].Entity,
			"entity_id": intents[0].EntityID,
			"count":     len(intents),
		}).WithError(err).Error("failed to publish side-effect intents")
	}
}
