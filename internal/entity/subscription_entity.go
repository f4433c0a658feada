// FILE: internal/entity/subscription_entity.go
package entity

import (
	"strings"

	"bidwizer-be/pkg/apperr"
)

type PlanTier string

const (
	PlanTierFree     PlanTier = "FREE"
	PlanTierStandard PlanTier = "STANDARD"
	PlanTierPremium  PlanTier = "PREMIUM"
)

// PlanFeatures is immutable reference data. Never mutate a value returned from the catalog.
type PlanFeatures struct {
	Tier               PlanTier `json:"tier"`
	Name               string   `json:"name"`
	Price              float64  `json:"price"` // USD per month
	MonthlyAIQuestions int      `json:"monthly_ai_questions"`
	// Seats includes the admin who registers the account
	Seats                int      `json:"seats"`
	PublisherFollowLimit int      `json:"publisher_follow_limit"`
	Features             []string `json:"features"`
}

var planCatalog = []PlanFeatures{
	{
		Tier:                 PlanTierFree,
		Name:                 "Free",
		Price:                0,
		MonthlyAIQuestions:   10,
		Seats:                1,
		PublisherFollowLimit: 3,
		Features: []string{
			"Browse and search public tenders",
			"10 AI questions per month",
			"Follow up to 3 publishers",
		},
	},
	{
		Tier:                 PlanTierStandard,
		Name:                 "Standard",
		Price:                49,
		MonthlyAIQuestions:   100,
		Seats:                5,
		PublisherFollowLimit: 5,
		Features: []string{
			"Everything in Free",
			"100 AI questions per month",
			"Up to 5 team seats",
			"Follow up to 5 publishers",
			"AI tender briefs",
		},
	},
	{
		Tier:                 PlanTierPremium,
		Name:                 "Premium",
		Price:                149,
		MonthlyAIQuestions:   500,
		Seats:                15,
		PublisherFollowLimit: 25,
		Features: []string{
			"Everything in Standard",
			"500 AI questions per month",
			"Up to 15 team seats",
			"Follow up to 25 publishers",
			"Priority support",
		},
	},
}

// ParsePlanTier normalises case and surrounding whitespace. Unknown values are NotFound.
func ParsePlanTier(raw string) (PlanTier, error) {
	tier := PlanTier(strings.ToUpper(strings.TrimSpace(raw)))
	if _, err := FindPlan(tier); err != nil {
		return "", err
	}
	return tier, nil
}

func FindPlan(tier PlanTier) (PlanFeatures, error) {
	for _, p := range planCatalog {
		if p.Tier == tier {
			return clonePlan(p), nil
		}
	}
	return PlanFeatures{}, apperr.NotFound("plan", string(tier))
}

// MustPlan is for tiers that are compile-time constants.
func MustPlan(tier PlanTier) PlanFeatures {
	p, err := FindPlan(tier)
	if err != nil {
		panic(err)
	}
	return p
}

func AllPlans() []PlanFeatures {
	out := make([]PlanFeatures, 0, len(planCatalog))
	for _, p := range planCatalog {
		out = append(out, clonePlan(p))
	}
	return out
}

func clonePlan(p PlanFeatures) PlanFeatures {
	p.Features = append([]string(nil), p.Features...)
	return p
}
