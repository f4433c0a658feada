// Package wizard holds the registration flows: the three-step bidder wizard and the
// publisher plan → payment → gateway flow. Both persist through storage.Adapter so a
// page navigation can rebuild them.
package wizard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"bidwizer-be/internal/entity"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/pkg/apperr"
	"bidwizer-be/pkg/storage"
	"bidwizer-be/pkg/validation"

	"github.com/google/uuid"
)

type State string

const (
	StateStep1Editing State = "step1_editing"
	StateStep2Editing State = "step2_editing"
	StateStep3Editing State = "step3_editing"
	StateReady        State = "ready"
)

const lastStep = 3

var stepStates = [...]State{1: StateStep1Editing, 2: StateStep2Editing, 3: StateStep3Editing, 4: StateReady}

var stepKeys = [...]string{1: storage.KeyBidderStep1, 2: storage.KeyBidderStep2, 3: storage.KeyBidderStep3}

// Route is where the web client navigates for this state.
func (s State) Route() string {
	switch s {
	case StateStep1Editing:
		return "/register/bidder/step1"
	case StateStep2Editing:
		return "/register/bidder/step2"
	case StateStep3Editing:
		return "/register/bidder/step3"
	default:
		return "/register/bidder/ready"
	}
}

// Step is 1..3 while editing and 4 once ready.
func (s State) Step() int {
	for i, st := range stepStates {
		if st == s && i > 0 {
			return i
		}
	}
	return 0
}

type fieldRule struct {
	name string
	tag  string
}

var stepRules = map[int][]fieldRule{
	1: {
		{"companyName", "required"},
		{"contactName", "required"},
		{"email", "required,email"},
		{"phone", "required"},
	},
	2: {
		{"companyName", "required"},
		{"registrationNumber", "required"},
		{"industry", "required"},
		{"country", "required"},
		{"companySize", "required"},
	},
	3: {},
}

const industryOther = "other"

type BidderOption func(*BidderWizard)

// WithClearOnReady controls whether step data is wiped once the wizard reaches Ready.
// Keeping it (false) lets a later registration in the same browser resume stale data.
func WithClearOnReady(clear bool) BidderOption {
	return func(w *BidderWizard) { w.clearOnReady = clear }
}

type BidderWizard struct {
	store        storage.Adapter
	logger       logger.ILogger
	validate     *validation.Validator
	clearOnReady bool

	mu        sync.Mutex
	state     State
	completed [lastStep + 1]bool
	records   map[int]map[string]string
	plan      entity.PlanTier
	members   []entity.TeamMember
	draft     *entity.TeamMemberDraft
}

// step3Document is the extra payload stored with the step 3 record.
type step3Document struct {
	Plan        entity.PlanTier     `json:"plan"`
	TeamMembers []entity.TeamMember `json:"teamMembers"`
}

// NewBidderWizard rebuilds the wizard from storage. Completed steps are the contiguous
// prefix of stored step records, and the current state is the step after them.
func NewBidderWizard(ctx context.Context, store storage.Adapter, log logger.ILogger, opts ...BidderOption) *BidderWizard {
	w := &BidderWizard{
		store:        store,
		logger:       log,
		validate:     validation.New(),
		clearOnReady: true,
		state:        StateStep1Editing,
		records:      make(map[int]map[string]string),
		plan:         entity.PlanTierFree,
	}
	for _, opt := range opts {
		opt(w)
	}

	for n := 1; n <= lastStep; n++ {
		var doc map[string]any
		if !storage.LoadJSON(ctx, store, log, stepKeys[n], &doc) {
			break
		}
		w.completed[n] = true
		w.records[n] = stringFields(doc)
		w.state = stepStates[n+1]
		if n == lastStep {
			var s3 step3Document
			if storage.LoadJSON(ctx, store, log, stepKeys[n], &s3) {
				w.members = s3.TeamMembers
			}
		}
	}
	// Only reachable with clear-on-ready disabled: a finished registration left behind.
	// A new visit starts over at step 1 with the old answers as prefill.
	if w.state == StateReady {
		w.state = StateStep1Editing
		w.completed = [lastStep + 1]bool{}
	}
	if tier, ok := w.storedPlan(ctx); ok {
		w.plan = tier
	}
	return w
}

func (w *BidderWizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *BidderWizard) IsComplete(step int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return step >= 1 && step <= lastStep && w.completed[step]
}

// SubmitStep validates and stores step n, then advances to step n+1 (Ready after step 3).
// On failure the state is unchanged.
func (w *BidderWizard) SubmitStep(ctx context.Context, n int, fields map[string]string) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateReady {
		return w.state, fmt.Errorf("registration already finished: %w", apperr.ErrInvalidState)
	}
	if n < 1 || n > lastStep {
		return w.state, apperr.NewValidationError(n, "step", "unknown step")
	}
	for i := 1; i < n; i++ {
		if !w.completed[i] {
			return w.state, fmt.Errorf("step %d needs step %d first: %w", n, i, apperr.ErrInvalidState)
		}
	}

	clean := trimFields(fields)
	if errs := w.validateStep(n, clean); len(errs) > 0 {
		return w.state, &apperr.ValidationError{Step: n, Fields: errs}
	}

	doc := make(map[string]any, len(clean)+2)
	for k, v := range clean {
		doc[k] = v
	}
	if n == lastStep {
		doc["plan"] = w.plan
		doc["teamMembers"] = append([]entity.TeamMember{}, w.members...)
	}
	if err := storage.SetJSON(ctx, w.store, stepKeys[n], doc); err != nil {
		return w.state, fmt.Errorf("failed to save step %d: %w", n, err)
	}

	w.completed[n] = true
	w.records[n] = clean
	w.state = stepStates[n+1]
	w.logger.Info("Wizard", "Bidder step submitted", map[string]interface{}{"step": n, "next": string(w.state)})

	if w.state == StateReady {
		w.finishLocked(ctx)
	}
	return w.state, nil
}

func (w *BidderWizard) validateStep(n int, fields map[string]string) map[string]string {
	errs := make(map[string]string)
	for _, rule := range stepRules[n] {
		if msg := w.validate.Var(fields[rule.name], rule.tag); msg != "" {
			errs[rule.name] = msg
		}
	}
	if n == 2 && strings.EqualFold(fields["industry"], industryOther) && fields["otherIndustry"] == "" {
		errs["otherIndustry"] = "is required when industry is other"
	}
	return errs
}

// Record reads a submitted step back from storage. Once clear-on-ready has removed the
// stored copy, a step submitted in this session is still served from memory.
func (w *BidderWizard) Record(ctx context.Context, n int) (map[string]string, bool) {
	if n < 1 || n > lastStep {
		return nil, false
	}
	var doc map[string]any
	if storage.LoadJSON(ctx, w.store, w.logger, stepKeys[n], &doc) {
		return stringFields(doc), true
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.completed[n] {
		return nil, false
	}
	out := make(map[string]string, len(w.records[n]))
	for k, v := range w.records[n] {
		out[k] = v
	}
	return out, true
}

// Prefill returns the initial form values for step n copied from earlier steps.
func (w *BidderWizard) Prefill(n int) map[string]string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]string)
	if n == 2 {
		if name := w.records[1]["companyName"]; name != "" {
			out["companyName"] = name
		}
	}
	for k, v := range w.records[n] {
		out[k] = v
	}
	return out
}

// AddTeamMember commits a draft as a pending member. The admin holds one seat, so at most
// plan.Seats-1 members fit.
func (w *BidderWizard) AddTeamMember(ctx context.Context, draft entity.TeamMemberDraft) (entity.TeamMember, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateStep3Editing {
		return entity.TeamMember{}, fmt.Errorf("team members are added on step 3: %w", apperr.ErrInvalidState)
	}

	draft.Name = strings.TrimSpace(draft.Name)
	draft.Email = strings.TrimSpace(draft.Email)
	draft.Position = strings.TrimSpace(draft.Position)
	if err := w.validate.Struct(draft, lastStep); err != nil {
		return entity.TeamMember{}, err
	}
	if slices.ContainsFunc(w.members, func(m entity.TeamMember) bool { return strings.EqualFold(m.Email, draft.Email) }) {
		return entity.TeamMember{}, apperr.NewValidationError(lastStep, "email", "is already on the team")
	}

	plan := w.planLocked()
	limit := plan.Seats - 1
	if len(w.members) >= limit {
		return entity.TeamMember{}, &apperr.CapacityError{Resource: "team seats", Limit: limit, Used: len(w.members)}
	}

	member := entity.TeamMember{
		Id:       uuid.New(),
		Name:     draft.Name,
		Email:    draft.Email,
		Position: draft.Position,
		Status:   entity.TeamMemberStatusPending,
	}
	w.members = append(w.members, member)
	w.draft = nil
	return member, nil
}

// RemoveTeamMember is a no-op for unknown ids.
func (w *BidderWizard) RemoveTeamMember(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.members = slices.DeleteFunc(w.members, func(m entity.TeamMember) bool { return m.Id == id })
}

func (w *BidderWizard) TeamMembers() []entity.TeamMember {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]entity.TeamMember{}, w.members...)
}

func (w *BidderWizard) SetMemberDraft(d entity.TeamMemberDraft) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft = &d
}

func (w *BidderWizard) MemberDraft() (entity.TeamMemberDraft, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.draft == nil {
		return entity.TeamMemberDraft{}, false
	}
	return *w.draft, true
}

// RemainingSeats counts free seats after the admin and the added members.
func (w *BidderWizard) RemainingSeats() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return max(w.planLocked().Seats-1-len(w.members), 0)
}

// SkipToReady leaves step 3 without saving it. The member draft is discarded.
func (w *BidderWizard) SkipToReady(ctx context.Context) (State, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateStep3Editing {
		return w.state, fmt.Errorf("skip is only offered on step 3: %w", apperr.ErrInvalidState)
	}
	w.draft = nil
	w.state = StateReady
	w.logger.Info("Wizard", "Bidder skipped team setup", map[string]interface{}{"members_discarded": len(w.members)})
	w.finishLocked(ctx)
	return w.state, nil
}

func (w *BidderWizard) finishLocked(ctx context.Context) {
	w.draft = nil
	if !w.clearOnReady {
		return
	}
	for _, key := range []string{storage.KeyBidderStep1, storage.KeyBidderStep2, storage.KeyBidderStep3, storage.KeyBidderPlan} {
		if err := w.store.Remove(ctx, key); err != nil {
			w.logger.Warn("Wizard", "Failed to clear registration data", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}
}

// SelectPlan stores the tier chosen in the UI.
func (w *BidderWizard) SelectPlan(ctx context.Context, tier entity.PlanTier) error {
	if _, err := entity.FindPlan(tier); err != nil {
		return err
	}
	if err := w.store.Set(ctx, storage.KeyBidderPlan, string(tier)); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	w.mu.Lock()
	w.plan = tier
	w.mu.Unlock()
	return nil
}

// ApplyPlanQuery stores the tier carried by a ?plan= parameter. Empty or unknown values are
// ignored and reported as not applied.
func (w *BidderWizard) ApplyPlanQuery(ctx context.Context, raw string) (bool, error) {
	if strings.TrimSpace(raw) == "" {
		return false, nil
	}
	tier, err := entity.ParsePlanTier(raw)
	if err != nil {
		w.logger.Warn("Wizard", "Ignoring unknown plan parameter", map[string]interface{}{"plan": raw})
		return false, nil
	}
	if err := w.SelectPlan(ctx, tier); err != nil {
		return false, err
	}
	return true, nil
}

// ResolvePlan is the step 3 read: the stored tier (FREE if none), then the query parameter
// if one applies. Whichever is written last wins.
func (w *BidderWizard) ResolvePlan(ctx context.Context, rawQuery string) (entity.PlanFeatures, error) {
	tier := entity.PlanTierFree
	if stored, ok := w.storedPlan(ctx); ok {
		tier = stored
	}
	w.mu.Lock()
	w.plan = tier
	w.mu.Unlock()

	if _, err := w.ApplyPlanQuery(ctx, rawQuery); err != nil {
		return entity.PlanFeatures{}, err
	}
	return w.Plan(), nil
}

func (w *BidderWizard) Plan() entity.PlanFeatures {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.planLocked()
}

func (w *BidderWizard) planLocked() entity.PlanFeatures {
	p, err := entity.FindPlan(w.plan)
	if err != nil {
		return entity.MustPlan(entity.PlanTierFree)
	}
	return p
}

func (w *BidderWizard) storedPlan(ctx context.Context) (entity.PlanTier, bool) {
	raw, ok, err := w.store.Get(ctx, storage.KeyBidderPlan)
	if err != nil {
		w.logger.Error("Wizard", "Failed to read stored plan", map[string]interface{}{"error": err})
		return "", false
	}
	if !ok {
		return "", false
	}
	tier, err := entity.ParsePlanTier(raw)
	if err != nil {
		w.logger.Warn("Wizard", apperr.ErrStorageCorrupt.Error()+", using default", map[string]interface{}{
			"key":   storage.KeyBidderPlan,
			"value": raw,
		})
		return "", false
	}
	return tier, true
}

func trimFields(fields map[string]string) map[string]string {
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = strings.TrimSpace(v)
	}
	return out
}

func stringFields(doc map[string]any) map[string]string {
	out := make(map[string]string, len(doc))
	for k, v := range doc {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
