package service

import (
	"context"

	"bidwizer-be/internal/dto"
	"bidwizer-be/internal/entity"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/pkg/apperr"
	"bidwizer-be/pkg/follow"
	"bidwizer-be/pkg/storage"
)

type IFollowService interface {
	Status(ctx context.Context, browserId string) *dto.FollowStatusResponse
	Toggle(ctx context.Context, browserId, publisherId string) (*dto.ToggleFollowResponse, error)
	Watch(browserId string, onChange func(*dto.FollowStatusResponse)) func()
}

type followService struct {
	browsers *BrowserStore
	logger   logger.ILogger
}

func NewFollowService(browsers *BrowserStore, log logger.ILogger) IFollowService {
	return &followService{browsers: browsers, logger: log}
}

// forBrowser binds the follow set to the browser's account plan, FREE until a bidder
// registration has finished there.
func (s *followService) forBrowser(ctx context.Context, browserId string) *follow.Service {
	store := s.browsers.For(browserId)
	plan := entity.MustPlan(entity.PlanTierFree)

	raw, ok, err := store.Get(ctx, storage.KeyAccountPlan)
	switch {
	case err != nil:
		s.logger.Error("Follow", "Failed to read account plan", map[string]interface{}{"error": err, "browser_id": browserId})
	case ok:
		tier, perr := entity.ParsePlanTier(raw)
		if perr != nil {
			s.logger.Warn("Follow", apperr.ErrStorageCorrupt.Error()+", using default", map[string]interface{}{
				"key":   storage.KeyAccountPlan,
				"value": raw,
			})
			break
		}
		plan = entity.MustPlan(tier)
	}
	return follow.NewService(store, plan, s.logger)
}

func (s *followService) Status(ctx context.Context, browserId string) *dto.FollowStatusResponse {
	f := s.forBrowser(ctx, browserId)
	return &dto.FollowStatusResponse{Followed: f.Followed(ctx), Limit: f.Limit()}
}

func (s *followService) Toggle(ctx context.Context, browserId, publisherId string) (*dto.ToggleFollowResponse, error) {
	f := s.forBrowser(ctx, browserId)
	following, err := f.ToggleFollow(ctx, publisherId)
	if err != nil {
		return nil, err
	}
	return &dto.ToggleFollowResponse{
		PublisherId: publisherId,
		Following:   following,
		Followed:    f.Followed(ctx),
		Limit:       f.Limit(),
	}, nil
}

// Watch reports the browser's follow set after every rewrite of it. The limit is
// resolved per change since finishing a registration can raise it.
func (s *followService) Watch(browserId string, onChange func(*dto.FollowStatusResponse)) func() {
	ctx := context.Background()
	return s.forBrowser(ctx, browserId).Watch(ctx, func(ids []string) {
		onChange(&dto.FollowStatusResponse{Followed: ids, Limit: s.forBrowser(ctx, browserId).Limit()})
	})
}
