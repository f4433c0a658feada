package dto

import (
	"bidwizer-be/internal/entity"
)

type SubmitStepRequest struct {
	Fields map[string]string `json:"fields"`
}

type SelectPlanRequest struct {
	Plan string `json:"plan" validate:"required"`
}

type AddTeamMemberRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

type BidderWizardResponse struct {
	State          string                  `json:"state"`
	Step           int                     `json:"step"`
	Route          string                  `json:"route"`
	CompletedSteps []int                   `json:"completed_steps"`
	Prefill        map[string]string       `json:"prefill,omitempty"`
	Plan           entity.PlanFeatures     `json:"plan"`
	TeamMembers    []entity.TeamMember     `json:"team_members"`
	RemainingSeats int                     `json:"remaining_seats"`
	Draft          *entity.TeamMemberDraft `json:"draft,omitempty"`
}

type TeamMemberResponse struct {
	Member         entity.TeamMember `json:"member"`
	RemainingSeats int               `json:"remaining_seats"`
}

type PublisherPaymentRequest struct {
	OrganizationName string `json:"organizationName"`
	ContactName      string `json:"contactName"`
	BillingEmail     string `json:"billingEmail"`
	Phone            string `json:"phone"`
	AddressLine1     string `json:"addressLine1"`
	City             string `json:"city"`
	PostalCode       string `json:"postalCode"`
	Country          string `json:"country"`
}

type PublisherWizardResponse struct {
	State       string          `json:"state"`
	Route       string          `json:"route"`
	Plan        entity.PlanTier `json:"plan,omitempty"`
	OrderId     string          `json:"order_id,omitempty"`
	RedirectURL string          `json:"redirect_url,omitempty"`
}

type CheckoutCompleteRequest struct {
	OrderId string `json:"order_id" validate:"required"`
}

type SandboxCheckoutResponse struct {
	OrderId   string `json:"order_id"`
	Plan      string `json:"plan"`
	Amount    string `json:"amount"`
	Email     string `json:"email"`
	ReturnURL string `json:"return_url"`
}
