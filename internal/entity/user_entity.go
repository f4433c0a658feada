package entity

import "github.com/google/uuid"

type TeamMemberStatus string

const (
	TeamMemberStatusPending TeamMemberStatus = "pending"
	TeamMemberStatusInvited TeamMemberStatus = "invited"
	TeamMemberStatusActive  TeamMemberStatus = "active"
)

// TeamMember is a seat assigned during bidder registration.
type TeamMember struct {
	Id       uuid.UUID        `json:"id"`
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Position string           `json:"position"`
	Status   TeamMemberStatus `json:"status"`
}

// TeamMemberDraft is the add-member form before it is committed.
type TeamMemberDraft struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Position string `json:"position"`
}
