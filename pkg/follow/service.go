// Package follow keeps the set of publishers a viewer follows, capped by plan.
package follow

import (
	"context"
	"slices"

	"bidwizer-be/internal/entity"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/pkg/apperr"
	"bidwizer-be/pkg/catalog"
	"bidwizer-be/pkg/storage"
)

type Service struct {
	store  storage.Adapter
	plan   entity.PlanFeatures
	logger logger.ILogger
}

func NewService(store storage.Adapter, plan entity.PlanFeatures, log logger.ILogger) *Service {
	return &Service{store: store, plan: plan, logger: log}
}

// Followed returns the ids in follow order. Corrupt storage reads as an empty set.
func (s *Service) Followed(ctx context.Context) []string {
	return storage.GetJSON(ctx, s.store, s.logger, storage.KeyFollowedPublishers, []string{})
}

func (s *Service) IsFollowing(ctx context.Context, publisherId string) bool {
	return slices.Contains(s.Followed(ctx), publisherId)
}

func (s *Service) Limit() int {
	return s.plan.PublisherFollowLimit
}

// ToggleFollow unfollows a followed publisher, otherwise follows it if the plan allows.
// The returned bool is the new following state. A rejected follow leaves the set as is.
func (s *Service) ToggleFollow(ctx context.Context, publisherId string) (bool, error) {
	if _, err := catalog.FindPublisher(publisherId); err != nil {
		return false, err
	}

	ids := s.Followed(ctx)
	if i := slices.Index(ids, publisherId); i >= 0 {
		ids = slices.Delete(ids, i, i+1)
		if err := storage.SetJSON(ctx, s.store, storage.KeyFollowedPublishers, ids); err != nil {
			return true, err
		}
		s.logger.Info("Follow", "Publisher unfollowed", map[string]interface{}{"publisher_id": publisherId})
		return false, nil
	}

	if len(ids) >= s.plan.PublisherFollowLimit {
		return false, &apperr.CapacityError{
			Resource: "followed publishers",
			Limit:    s.plan.PublisherFollowLimit,
			Used:     len(ids),
		}
	}

	ids = append(ids, publisherId)
	if err := storage.SetJSON(ctx, s.store, storage.KeyFollowedPublishers, ids); err != nil {
		return false, err
	}
	s.logger.Info("Follow", "Publisher followed", map[string]interface{}{"publisher_id": publisherId})
	return true, nil
}

// Watch calls onChange with the current set whenever any view rewrites it.
func (s *Service) Watch(ctx context.Context, onChange func([]string)) func() {
	return s.store.Subscribe(func(c storage.Change) {
		if c.Key != storage.KeyFollowedPublishers {
			return
		}
		onChange(s.Followed(ctx))
	})
}
