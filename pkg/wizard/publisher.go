package wizard

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"bidwizer-be/internal/entity"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/pkg/apperr"
	"bidwizer-be/pkg/storage"
	"bidwizer-be/pkg/validation"

	"github.com/google/uuid"
)

type PublisherState string

const (
	PublisherStatePlanSelection   PublisherState = "plan_selection"
	PublisherStatePaymentDetails  PublisherState = "payment_details"
	PublisherStateGatewayRedirect PublisherState = "gateway_redirect"
	PublisherStateLogin           PublisherState = "login_registered"
)

type PaymentDetails struct {
	OrganizationName string `json:"organizationName" validate:"required"`
	ContactName      string `json:"contactName" validate:"required"`
	BillingEmail     string `json:"billingEmail" validate:"required,email"`
	Phone            string `json:"phone" validate:"required"`
	AddressLine1     string `json:"addressLine1" validate:"required"`
	City             string `json:"city" validate:"required"`
	PostalCode       string `json:"postalCode" validate:"required,max=10"`
	Country          string `json:"country" validate:"required,iso3166_1_alpha2"`
}

type Order struct {
	OrderId string
	Plan    entity.PlanFeatures
	Amount  float64
	Details PaymentDetails
}

// Gateway hands the browser over to an external checkout page.
type Gateway interface {
	Checkout(ctx context.Context, order Order) (redirectURL string, err error)
}

// SandboxGateway builds checkout links for a sandbox page. No payment is taken.
type SandboxGateway struct {
	checkoutBaseURL string
}

func NewSandboxGateway(checkoutBaseURL string) *SandboxGateway {
	return &SandboxGateway{checkoutBaseURL: checkoutBaseURL}
}

func (g *SandboxGateway) Checkout(_ context.Context, order Order) (string, error) {
	u, err := url.Parse(g.checkoutBaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid checkout url: %w", err)
	}
	q := u.Query()
	q.Set("order_id", order.OrderId)
	q.Set("plan", string(order.Plan.Tier))
	q.Set("amount", fmt.Sprintf("%.2f", order.Amount))
	q.Set("email", order.Details.BillingEmail)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// PublisherRegistration is the persisted shape under storage.KeyPublisherRegistration.
type PublisherRegistration struct {
	State       PublisherState  `json:"state"`
	Plan        entity.PlanTier `json:"plan,omitempty"`
	Details     *PaymentDetails `json:"details,omitempty"`
	OrderId     string          `json:"orderId,omitempty"`
	RedirectURL string          `json:"redirectUrl,omitempty"`
}

type PublisherWizard struct {
	store    storage.Adapter
	gateway  Gateway
	loginURL string
	logger   logger.ILogger
	validate *validation.Validator

	mu  sync.Mutex
	reg PublisherRegistration
}

func NewPublisherWizard(ctx context.Context, store storage.Adapter, gateway Gateway, loginURL string, log logger.ILogger) *PublisherWizard {
	w := &PublisherWizard{
		store:    store,
		gateway:  gateway,
		loginURL: loginURL,
		logger:   log,
		validate: validation.New(),
		reg:      PublisherRegistration{State: PublisherStatePlanSelection},
	}
	var saved PublisherRegistration
	if storage.LoadJSON(ctx, store, log, storage.KeyPublisherRegistration, &saved) && saved.State != "" {
		w.reg = saved
	}
	return w
}

func (w *PublisherWizard) Registration() PublisherRegistration {
	w.mu.Lock()
	defer w.mu.Unlock()
	reg := w.reg
	if reg.Details != nil {
		d := *reg.Details
		reg.Details = &d
	}
	return reg
}

// Route is the client-side destination for the current state.
func (w *PublisherWizard) Route() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch w.reg.State {
	case PublisherStatePaymentDetails:
		return "/register/publisher/payment"
	case PublisherStateGatewayRedirect:
		return w.reg.RedirectURL
	case PublisherStateLogin:
		return w.loginRoute()
	default:
		return "/register/publisher/plan"
	}
}

func (w *PublisherWizard) loginRoute() string {
	sep := "?"
	if strings.Contains(w.loginURL, "?") {
		sep = "&"
	}
	return w.loginURL + sep + "registered=true"
}

// SelectPlan may be repeated until payment is submitted. FREE needs no payment and goes
// straight to login.
func (w *PublisherWizard) SelectPlan(ctx context.Context, tier entity.PlanTier) (PublisherState, error) {
	plan, err := entity.FindPlan(tier)
	if err != nil {
		return w.Registration().State, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.reg.State != PublisherStatePlanSelection && w.reg.State != PublisherStatePaymentDetails {
		return w.reg.State, fmt.Errorf("plan is locked once checkout started: %w", apperr.ErrInvalidState)
	}

	next := w.reg
	next.Plan = plan.Tier
	next.State = PublisherStatePaymentDetails
	if plan.Price == 0 {
		next.State = PublisherStateLogin
	}
	return w.commitLocked(ctx, next)
}

// SubmitPayment validates billing details and asks the gateway for a checkout redirect.
func (w *PublisherWizard) SubmitPayment(ctx context.Context, details PaymentDetails) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.reg.State != PublisherStatePaymentDetails {
		return "", fmt.Errorf("no plan awaiting payment: %w", apperr.ErrInvalidState)
	}
	details.Country = strings.ToUpper(strings.TrimSpace(details.Country))
	if err := w.validate.Struct(details, 0); err != nil {
		return "", err
	}

	plan := entity.MustPlan(w.reg.Plan)
	order := Order{OrderId: uuid.NewString(), Plan: plan, Amount: plan.Price, Details: details}
	redirect, err := w.gateway.Checkout(ctx, order)
	if err != nil {
		w.logger.Error("Wizard", "Gateway checkout failed", map[string]interface{}{"error": err, "plan": string(plan.Tier)})
		return "", fmt.Errorf("checkout failed: %w", err)
	}

	next := w.reg
	next.Details = &details
	next.OrderId = order.OrderId
	next.RedirectURL = redirect
	next.State = PublisherStateGatewayRedirect
	if _, err := w.commitLocked(ctx, next); err != nil {
		return "", err
	}
	return redirect, nil
}

// CompleteGateway handles the browser coming back from checkout.
func (w *PublisherWizard) CompleteGateway(ctx context.Context, orderId string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.reg.State != PublisherStateGatewayRedirect {
		return "", fmt.Errorf("no checkout in progress: %w", apperr.ErrInvalidState)
	}
	if orderId != w.reg.OrderId {
		return "", fmt.Errorf("order %q does not match checkout: %w", orderId, apperr.ErrInvalidInput)
	}

	next := w.reg
	next.State = PublisherStateLogin
	if _, err := w.commitLocked(ctx, next); err != nil {
		return "", err
	}
	return w.loginRoute(), nil
}

func (w *PublisherWizard) commitLocked(ctx context.Context, next PublisherRegistration) (PublisherState, error) {
	if err := storage.SetJSON(ctx, w.store, storage.KeyPublisherRegistration, next); err != nil {
		return w.reg.State, fmt.Errorf("failed to save registration: %w", err)
	}
	w.logger.Info("Wizard", "Publisher registration advanced", map[string]interface{}{
		"from": string(w.reg.State),
		"to":   string(next.State),
		"plan": string(next.Plan),
	})
	w.reg = next
	return w.reg.State, nil
}
