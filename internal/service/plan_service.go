// FILE: internal/service/plan_service.go
// Service for the subscription plan catalog
package service

import (
	"bidwizer-be/internal/entity"
)

type PlanService interface {
	GetAllPlans() []entity.PlanFeatures
	GetPlan(tier string) (entity.PlanFeatures, error)
}

type planService struct{}

func NewPlanService() PlanService {
	return &planService{}
}

func (s *planService) GetAllPlans() []entity.PlanFeatures {
	return entity.AllPlans()
}

// GetPlan accepts any casing of the tier name.
func (s *planService) GetPlan(tier string) (entity.PlanFeatures, error) {
	t, err := entity.ParsePlanTier(tier)
	if err != nil {
		return entity.PlanFeatures{}, err
	}
	return entity.FindPlan(t)
}
