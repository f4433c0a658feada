package dto

import (
	"bidwizer-be/internal/entity"

	"github.com/google/uuid"
)

type OpenWorkspaceRequest struct {
	TenderId string `json:"tender_id" validate:"required"`
}

type WorkspaceResponse struct {
	SessionId   uuid.UUID            `json:"session_id"`
	Tender      entity.Tender        `json:"tender"`
	Scope       entity.ChatScope     `json:"scope"`
	ScopeTarget string               `json:"scope_target,omitempty"`
	Awaiting    bool                 `json:"awaiting_response"`
	Messages    []entity.ChatMessage `json:"messages"`
	StreamPath  string               `json:"stream_path"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

type SendMessageResponse struct {
	UserMessageId      uuid.UUID        `json:"user_message_id"`
	AssistantMessageId uuid.UUID        `json:"assistant_message_id"`
	Scope              entity.ChatScope `json:"scope"`
	ScopeTarget        string           `json:"scope_target,omitempty"`
}

// SelectionRequest mirrors the workspace file tree. Both empty selects the whole tender.
type SelectionRequest struct {
	FileId     string `json:"file_id"`
	FolderPath string `json:"folder_path"`
}

type ScopeRequest struct {
	Scope  string `json:"scope" validate:"required,oneof=file folder entire"`
	Target string `json:"target"`
}

type CancelResponse struct {
	Cancelled bool `json:"cancelled"`
}
