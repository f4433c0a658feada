package service

import (
	"context"
	"fmt"
	"time"

	"bidwizer-be/internal/dto"
	"bidwizer-be/internal/entity"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/internal/repository/memory"
	"bidwizer-be/pkg/apperr"
	"bidwizer-be/pkg/catalog"
	"bidwizer-be/pkg/chat"

	"github.com/google/uuid"
)

// Message types pushed on a workspace channel.
const (
	EventChatDelta = "chat.delta"
	EventChatDone  = "chat.done"
)

// Notifier pushes a typed message to every subscriber of channel. websocket.Hub satisfies it.
type Notifier interface {
	Send(channel, msgType string, data interface{})
}

type IWorkspaceService interface {
	Open(ctx context.Context, req *dto.OpenWorkspaceRequest) (*dto.WorkspaceResponse, error)
	Get(ctx context.Context, sessionId uuid.UUID) (*dto.WorkspaceResponse, error)
	SendMessage(ctx context.Context, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	Cancel(ctx context.Context, sessionId uuid.UUID) (bool, error)
	Reset(ctx context.Context, sessionId uuid.UUID) error
	Close(ctx context.Context, sessionId uuid.UUID) error
	SetSelection(ctx context.Context, sessionId uuid.UUID, req *dto.SelectionRequest) (*dto.WorkspaceResponse, error)
	SetScope(ctx context.Context, sessionId uuid.UUID, req *dto.ScopeRequest) (*dto.WorkspaceResponse, error)
	Exists(sessionId uuid.UUID) bool
	Shutdown()
}

type workspace struct {
	session *chat.Session
	tender  entity.Tender
}

type workspaceService struct {
	responder chat.Responder
	notifier  Notifier
	sessions  *memory.SessionRepository[*workspace]
	logger    logger.ILogger
}

func NewWorkspaceService(responder chat.Responder, notifier Notifier, ttl time.Duration, log logger.ILogger) IWorkspaceService {
	return &workspaceService{
		responder: responder,
		notifier:  notifier,
		sessions: memory.NewSessionRepository(ttl, func(key string, w *workspace) {
			w.session.Close()
			log.Info("Workspace", "Workspace closed", map[string]interface{}{"session_id": key, "tender_id": w.tender.Id})
		}),
		logger: log,
	}
}

// Open starts a chat session over one tender's documents.
func (s *workspaceService) Open(ctx context.Context, req *dto.OpenWorkspaceRequest) (*dto.WorkspaceResponse, error) {
	tender, err := catalog.FindTender(req.TenderId)
	if err != nil {
		return nil, err
	}

	session := chat.NewSession(s.responder, s.logger, chat.WithListener(func(u chat.Update) {
		msgType := EventChatDelta
		if u.Done {
			msgType = EventChatDone
		}
		s.notifier.Send(u.SessionId.String(), msgType, u)
	}))
	w := &workspace{session: session, tender: tender}
	s.sessions.Save(session.ID().String(), w)

	s.logger.Info("Workspace", "Workspace opened", map[string]interface{}{
		"session_id": session.ID().String(),
		"tender_id":  tender.Id,
	})
	return workspaceResponse(w), nil
}

func (s *workspaceService) find(sessionId uuid.UUID) (*workspace, error) {
	w, ok := s.sessions.Get(sessionId.String())
	if !ok {
		return nil, apperr.NotFound("workspace", sessionId.String())
	}
	return w, nil
}

func (s *workspaceService) Exists(sessionId uuid.UUID) bool {
	_, ok := s.sessions.Get(sessionId.String())
	return ok
}

func (s *workspaceService) Get(ctx context.Context, sessionId uuid.UUID) (*dto.WorkspaceResponse, error) {
	w, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	return workspaceResponse(w), nil
}

// SendMessage returns once the turn is accepted. Fragments arrive on the stream channel.
func (s *workspaceService) SendMessage(ctx context.Context, sessionId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	w, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	turn, err := w.session.SubmitUserTurn(ctx, req.Text)
	if err != nil {
		return nil, err
	}
	return &dto.SendMessageResponse{
		UserMessageId:      turn.UserMessageId,
		AssistantMessageId: turn.AssistantMessageId,
		Scope:              turn.Scope,
		ScopeTarget:        turn.ScopeTarget,
	}, nil
}

func (s *workspaceService) Cancel(ctx context.Context, sessionId uuid.UUID) (bool, error) {
	w, err := s.find(sessionId)
	if err != nil {
		return false, err
	}
	return w.session.Cancel(), nil
}

func (s *workspaceService) Reset(ctx context.Context, sessionId uuid.UUID) error {
	w, err := s.find(sessionId)
	if err != nil {
		return err
	}
	w.session.Reset()
	return nil
}

// Close ends the workspace. The eviction hook closes the chat session.
func (s *workspaceService) Close(ctx context.Context, sessionId uuid.UUID) error {
	if _, err := s.find(sessionId); err != nil {
		return err
	}
	s.sessions.Delete(sessionId.String())
	return nil
}

// SetSelection checks the selection against the tender's file tree before applying it.
func (s *workspaceService) SetSelection(ctx context.Context, sessionId uuid.UUID, req *dto.SelectionRequest) (*dto.WorkspaceResponse, error) {
	w, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	if err := checkTarget(w.tender, req.FileId, req.FolderPath); err != nil {
		return nil, err
	}
	w.session.SetSelection(req.FileId, req.FolderPath)
	return workspaceResponse(w), nil
}

func (s *workspaceService) SetScope(ctx context.Context, sessionId uuid.UUID, req *dto.ScopeRequest) (*dto.WorkspaceResponse, error) {
	w, err := s.find(sessionId)
	if err != nil {
		return nil, err
	}
	scope := entity.ChatScope(req.Scope)
	switch scope {
	case entity.ChatScopeFile:
		err = checkTarget(w.tender, req.Target, "")
	case entity.ChatScopeFolder:
		err = checkTarget(w.tender, "", req.Target)
	}
	if err != nil {
		return nil, err
	}
	if err := w.session.SetScope(scope, req.Target); err != nil {
		return nil, err
	}
	return workspaceResponse(w), nil
}

// Shutdown closes every open workspace.
func (s *workspaceService) Shutdown() {
	s.sessions.Flush()
}

func checkTarget(tender entity.Tender, fileId, folderPath string) error {
	if fileId != "" {
		if _, ok := tender.FindDocument(fileId); !ok {
			return apperr.NotFound("document", fileId)
		}
		return nil
	}
	if folderPath != "" && !tender.HasFolder(folderPath) {
		return apperr.NotFound("folder", folderPath)
	}
	return nil
}

func workspaceResponse(w *workspace) *dto.WorkspaceResponse {
	scope, target := w.session.Scope()
	return &dto.WorkspaceResponse{
		SessionId:   w.session.ID(),
		Tender:      w.tender,
		Scope:       scope,
		ScopeTarget: target,
		Awaiting:    w.session.IsAwaitingResponse(),
		Messages:    w.session.Messages(),
		StreamPath:  fmt.Sprintf("/api/ws/workspaces/%s", w.session.ID()),
	}
}
