// Package storage is the browser-storage abstraction used by every stateful component.
// Values are opaque strings, as in window.localStorage. Structured values go through
// GetJSON/SetJSON.
package storage

import "context"

// Well-known keys. Their shapes are part of the contract with the web client.
const (
	KeyBidderStep1           = "bidder_step1"
	KeyBidderStep2           = "bidder_step2"
	KeyBidderStep3           = "bidder_step3"
	KeyBidderPlan            = "bidder_plan"
	KeyFollowedPublishers    = "bidwizer_followed_publishers"
	KeyPublisherRegistration = "publisher_registration"
	// KeyAccountPlan is the tier of a finished bidder registration. It outlives the wizard keys.
	KeyAccountPlan = "bidwizer_account_plan"
)

// Change is broadcast after every Set or Remove. Listeners re-read the key.
type Change struct {
	Key     string `json:"key"`
	Removed bool   `json:"removed,omitempty"`
}

type Adapter interface {
	// Get reports ok=false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Subscribe registers onChange for writes made through any adapter sharing the same
	// underlying store, including this one. The returned func unsubscribes and is idempotent.
	Subscribe(onChange func(Change)) (unsubscribe func())
}
