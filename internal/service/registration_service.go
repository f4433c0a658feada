package service

import (
	"context"
	"errors"
	"fmt"

	"bidwizer-be/internal/config"
	"bidwizer-be/internal/dto"
	"bidwizer-be/internal/entity"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/internal/repository/memory"
	"bidwizer-be/pkg/apperr"
	"bidwizer-be/pkg/storage"
	"bidwizer-be/pkg/wizard"

	"github.com/google/uuid"
)

type IRegistrationService interface {
	// Bidder
	BidderStatus(ctx context.Context, browserId, planQuery string) (*dto.BidderWizardResponse, error)
	SubmitBidderStep(ctx context.Context, browserId string, step int, req *dto.SubmitStepRequest) (*dto.BidderWizardResponse, error)
	SelectBidderPlan(ctx context.Context, browserId, plan string) (*dto.BidderWizardResponse, error)
	SaveMemberDraft(ctx context.Context, browserId string, req *dto.AddTeamMemberRequest) (*dto.BidderWizardResponse, error)
	AddTeamMember(ctx context.Context, browserId string, req *dto.AddTeamMemberRequest) (*dto.TeamMemberResponse, error)
	RemoveTeamMember(ctx context.Context, browserId string, memberId uuid.UUID) (*dto.BidderWizardResponse, error)
	SkipTeamSetup(ctx context.Context, browserId string) (*dto.BidderWizardResponse, error)
	RestartBidder(ctx context.Context, browserId string) (*dto.BidderWizardResponse, error)

	// Publisher
	PublisherStatus(ctx context.Context, browserId string) (*dto.PublisherWizardResponse, error)
	SelectPublisherPlan(ctx context.Context, browserId, plan string) (*dto.PublisherWizardResponse, error)
	SubmitPayment(ctx context.Context, browserId string, req *dto.PublisherPaymentRequest) (*dto.PublisherWizardResponse, error)
	CompleteCheckout(ctx context.Context, browserId, orderId string) (*dto.PublisherWizardResponse, error)
}

type registrationService struct {
	browsers   *BrowserStore
	bidders    *memory.SessionRepository[*wizard.BidderWizard]
	publishers *memory.SessionRepository[*wizard.PublisherWizard]
	gateway    wizard.Gateway
	cfg        *config.Config
	logger     logger.ILogger
}

func NewRegistrationService(browsers *BrowserStore, gateway wizard.Gateway, cfg *config.Config, log logger.ILogger) IRegistrationService {
	return &registrationService{
		browsers:   browsers,
		bidders:    memory.NewSessionRepository[*wizard.BidderWizard](cfg.Storage.SessionTTL, nil),
		publishers: memory.NewSessionRepository[*wizard.PublisherWizard](cfg.Storage.SessionTTL, nil),
		gateway:    gateway,
		cfg:        cfg,
		logger:     log,
	}
}

func (s *registrationService) bidder(ctx context.Context, browserId string) *wizard.BidderWizard {
	return s.bidders.GetOrCreate(browserId, func() *wizard.BidderWizard {
		return wizard.NewBidderWizard(
			ctx,
			s.browsers.For(browserId),
			s.logger,
			wizard.WithClearOnReady(s.cfg.Wizard.ClearOnReady),
		)
	})
}

func (s *registrationService) publisher(ctx context.Context, browserId string) *wizard.PublisherWizard {
	return s.publishers.GetOrCreate(browserId, func() *wizard.PublisherWizard {
		return wizard.NewPublisherWizard(ctx, s.browsers.For(browserId), s.gateway, s.cfg.Gateway.LoginURL, s.logger)
	})
}

// BidderStatus applies a ?plan= parameter the way the step pages do: step 3 re-reads the
// stored plan first, earlier steps just record the parameter.
func (s *registrationService) BidderStatus(ctx context.Context, browserId, planQuery string) (*dto.BidderWizardResponse, error) {
	w := s.bidder(ctx, browserId)
	if w.State() == wizard.StateStep3Editing {
		if _, err := w.ResolvePlan(ctx, planQuery); err != nil {
			return nil, err
		}
	} else if _, err := w.ApplyPlanQuery(ctx, planQuery); err != nil {
		return nil, err
	}
	return bidderResponse(w), nil
}

func (s *registrationService) SubmitBidderStep(ctx context.Context, browserId string, step int, req *dto.SubmitStepRequest) (*dto.BidderWizardResponse, error) {
	w := s.bidder(ctx, browserId)
	// The plan shown on step 3 is the one the step is saved with.
	plan := w.Plan()
	state, err := w.SubmitStep(ctx, step, req.Fields)
	if err != nil {
		return nil, err
	}
	if state == wizard.StateReady {
		s.recordAccountPlan(ctx, browserId, plan.Tier)
	}
	return bidderResponse(w), nil
}

func (s *registrationService) SelectBidderPlan(ctx context.Context, browserId, plan string) (*dto.BidderWizardResponse, error) {
	tier, err := entity.ParsePlanTier(plan)
	if err != nil {
		return nil, err
	}
	w := s.bidder(ctx, browserId)
	if err := w.SelectPlan(ctx, tier); err != nil {
		return nil, err
	}
	return bidderResponse(w), nil
}

func (s *registrationService) SaveMemberDraft(ctx context.Context, browserId string, req *dto.AddTeamMemberRequest) (*dto.BidderWizardResponse, error) {
	w := s.bidder(ctx, browserId)
	if w.State() != wizard.StateStep3Editing {
		return nil, fmt.Errorf("team members are edited on step 3: %w", apperr.ErrInvalidState)
	}
	w.SetMemberDraft(entity.TeamMemberDraft{Name: req.Name, Email: req.Email, Position: req.Position})
	return bidderResponse(w), nil
}

func (s *registrationService) AddTeamMember(ctx context.Context, browserId string, req *dto.AddTeamMemberRequest) (*dto.TeamMemberResponse, error) {
	w := s.bidder(ctx, browserId)
	member, err := w.AddTeamMember(ctx, entity.TeamMemberDraft{Name: req.Name, Email: req.Email, Position: req.Position})
	if err != nil {
		if errors.Is(err, apperr.ErrCapacityExceeded) {
			s.logger.Info("Registration", "Team seat limit reached", map[string]interface{}{"browser_id": browserId, "plan": string(w.Plan().Tier)})
		}
		return nil, err
	}
	return &dto.TeamMemberResponse{Member: member, RemainingSeats: w.RemainingSeats()}, nil
}

func (s *registrationService) RemoveTeamMember(ctx context.Context, browserId string, memberId uuid.UUID) (*dto.BidderWizardResponse, error) {
	w := s.bidder(ctx, browserId)
	w.RemoveTeamMember(memberId)
	return bidderResponse(w), nil
}

func (s *registrationService) SkipTeamSetup(ctx context.Context, browserId string) (*dto.BidderWizardResponse, error) {
	w := s.bidder(ctx, browserId)
	plan := w.Plan()
	if _, err := w.SkipToReady(ctx); err != nil {
		return nil, err
	}
	s.recordAccountPlan(ctx, browserId, plan.Tier)
	return bidderResponse(w), nil
}

// RestartBidder drops the in-memory wizard so the next visit rebuilds it from storage.
func (s *registrationService) RestartBidder(ctx context.Context, browserId string) (*dto.BidderWizardResponse, error) {
	s.bidders.Delete(browserId)
	return bidderResponse(s.bidder(ctx, browserId)), nil
}

func (s *registrationService) recordAccountPlan(ctx context.Context, browserId string, tier entity.PlanTier) {
	if err := s.browsers.For(browserId).Set(ctx, storage.KeyAccountPlan, string(tier)); err != nil {
		s.logger.Error("Registration", "Failed to record account plan", map[string]interface{}{"error": err, "browser_id": browserId})
	}
}

func (s *registrationService) PublisherStatus(ctx context.Context, browserId string) (*dto.PublisherWizardResponse, error) {
	return publisherResponse(s.publisher(ctx, browserId)), nil
}

func (s *registrationService) SelectPublisherPlan(ctx context.Context, browserId, plan string) (*dto.PublisherWizardResponse, error) {
	tier, err := entity.ParsePlanTier(plan)
	if err != nil {
		return nil, err
	}
	w := s.publisher(ctx, browserId)
	if _, err := w.SelectPlan(ctx, tier); err != nil {
		return nil, err
	}
	return publisherResponse(w), nil
}

func (s *registrationService) SubmitPayment(ctx context.Context, browserId string, req *dto.PublisherPaymentRequest) (*dto.PublisherWizardResponse, error) {
	w := s.publisher(ctx, browserId)
	if _, err := w.SubmitPayment(ctx, wizard.PaymentDetails{
		OrganizationName: req.OrganizationName,
		ContactName:      req.ContactName,
		BillingEmail:     req.BillingEmail,
		Phone:            req.Phone,
		AddressLine1:     req.AddressLine1,
		City:             req.City,
		PostalCode:       req.PostalCode,
		Country:          req.Country,
	}); err != nil {
		return nil, err
	}
	return publisherResponse(w), nil
}

func (s *registrationService) CompleteCheckout(ctx context.Context, browserId, orderId string) (*dto.PublisherWizardResponse, error) {
	w := s.publisher(ctx, browserId)
	if _, err := w.CompleteGateway(ctx, orderId); err != nil {
		return nil, err
	}
	return publisherResponse(w), nil
}

func bidderResponse(w *wizard.BidderWizard) *dto.BidderWizardResponse {
	state := w.State()
	res := &dto.BidderWizardResponse{
		State:          string(state),
		Step:           state.Step(),
		Route:          state.Route(),
		CompletedSteps: []int{},
		Plan:           w.Plan(),
		TeamMembers:    w.TeamMembers(),
		RemainingSeats: w.RemainingSeats(),
	}
	for n := 1; n <= 3; n++ {
		if w.IsComplete(n) {
			res.CompletedSteps = append(res.CompletedSteps, n)
		}
	}
	if state != wizard.StateReady {
		res.Prefill = w.Prefill(state.Step())
	}
	if d, ok := w.MemberDraft(); ok {
		res.Draft = &d
	}
	return res
}

func publisherResponse(w *wizard.PublisherWizard) *dto.PublisherWizardResponse {
	reg := w.Registration()
	return &dto.PublisherWizardResponse{
		State:       string(reg.State),
		Route:       w.Route(),
		Plan:        reg.Plan,
		OrderId:     reg.OrderId,
		RedirectURL: reg.RedirectURL,
	}
}
