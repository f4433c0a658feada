// Package chat drives one workspace conversation with the simulated assistant.
//
// A session alternates between idle and awaiting a response. Only one turn may be in flight;
// its fragments are folded into a single assistant message in arrival order. Reset and
// Close advance the session generation so a turn started before them can no longer write.
package chat

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bidwizer-be/internal/entity"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/pkg/apperr"

	"github.com/google/uuid"
)

// Responder is the streaming backend. simulator.Simulator satisfies it.
// The fragments of a stream that ran to the end concatenate to Render's answer.
type Responder interface {
	Respond(ctx context.Context, question string, scope entity.ChatScope, target string) <-chan string
	Render(question string, scope entity.ChatScope) string
	GetCitations(question string) []entity.Citation
}

// Update is pushed to the listener for every fragment and once at the end of a turn.
type Update struct {
	SessionId uuid.UUID         `json:"session_id"`
	MessageId uuid.UUID         `json:"message_id"`
	Delta     string            `json:"delta,omitempty"`
	Done      bool              `json:"done,omitempty"`
	Cancelled bool              `json:"cancelled,omitempty"`
	Citations []entity.Citation `json:"citations,omitempty"`
}

type Option func(*Session)

// WithListener receives updates on the turn's goroutine, in order, outside the session lock.
func WithListener(fn func(Update)) Option {
	return func(s *Session) { s.listener = fn }
}

type Session struct {
	id        uuid.UUID
	responder Responder
	logger    logger.ILogger
	listener  func(Update)

	mu          sync.Mutex
	messages    []entity.ChatMessage
	awaiting    bool
	closed      bool
	generation  uint64
	cancelTurn  context.CancelFunc
	scope       entity.ChatScope
	scopeTarget string
}

func NewSession(responder Responder, log logger.ILogger, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New(),
		responder: responder,
		logger:    log,
		scope:     entity.ChatScopeEntire,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() uuid.UUID {
	return s.id
}

// Turn is the handle for one question/answer exchange.
type Turn struct {
	UserMessageId      uuid.UUID        `json:"user_message_id"`
	AssistantMessageId uuid.UUID        `json:"assistant_message_id"`
	Scope              entity.ChatScope `json:"scope"`
	ScopeTarget        string           `json:"scope_target,omitempty"`

	done chan struct{}
}

func (t *Turn) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the turn has finished, was cancelled, or its session was reset.
func (t *Turn) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitUserTurn appends the user message plus an empty assistant message and starts
// streaming into the latter. The turn is detached from ctx cancellation; use Cancel.
func (s *Session) SubmitUserTurn(ctx context.Context, text string) (*Turn, error) {
	question := strings.TrimSpace(text)
	if question == "" {
		return nil, fmt.Errorf("message is empty: %w", apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, apperr.ErrSessionClosed
	}
	if s.awaiting {
		s.mu.Unlock()
		return nil, apperr.ErrBusy
	}

	now := time.Now()
	user := entity.ChatMessage{Id: uuid.New(), Role: entity.ChatRoleUser, Content: question, Timestamp: now}
	reply := entity.ChatMessage{Id: uuid.New(), Role: entity.ChatRoleAssistant, Timestamp: now}
	s.messages = append(s.messages, user, reply)
	replyIdx := len(s.messages) - 1

	turnCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.awaiting = true
	s.cancelTurn = cancel
	gen := s.generation
	turn := &Turn{
		UserMessageId:      user.Id,
		AssistantMessageId: reply.Id,
		Scope:              s.scope,
		ScopeTarget:        s.scopeTarget,
		done:               make(chan struct{}),
	}
	s.mu.Unlock()

	s.logger.Info("Chat", "Turn started", map[string]interface{}{
		"session_id": s.id.String(),
		"scope":      string(turn.Scope),
		"target":     turn.ScopeTarget,
	})

	fragments := s.responder.Respond(turnCtx, question, turn.Scope, turn.ScopeTarget)
	go s.consume(cancel, turn, gen, replyIdx, question, fragments)

	return turn, nil
}

func (s *Session) consume(cancel context.CancelFunc, turn *Turn, gen uint64, idx int, question string, fragments <-chan string) {
	defer close(turn.done)
	defer cancel()

	for f := range fragments {
		s.mu.Lock()
		if s.generation != gen {
			s.mu.Unlock()
			s.logger.Debug("Chat", "Dropping fragments of a reset session", map[string]interface{}{"session_id": s.id.String()})
			return
		}
		s.messages[idx].Content += f
		s.mu.Unlock()

		s.emit(Update{SessionId: s.id, MessageId: turn.AssistantMessageId, Delta: f})
	}

	// A Cancel that lands after the last fragment does not cut the answer short, so the
	// turn counts as cancelled only when the streamed text is incomplete.
	answer := s.responder.Render(question, turn.Scope)
	citations := s.responder.GetCitations(question)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return
	}
	cancelled := s.messages[idx].Content != answer
	if cancelled {
		citations = nil
	} else if len(citations) > 0 {
		s.messages[idx].Citations = citations
	}
	s.awaiting = false
	s.cancelTurn = nil
	s.mu.Unlock()

	s.emit(Update{SessionId: s.id, MessageId: turn.AssistantMessageId, Done: true, Cancelled: cancelled, Citations: citations})
}

func (s *Session) emit(u Update) {
	if s.listener != nil {
		s.listener(u)
	}
}

// Cancel stops the in-flight turn. Content streamed so far is kept and no citations are
// attached. It reports whether a turn was running.
func (s *Session) Cancel() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.awaiting || s.cancelTurn == nil {
		return false
	}
	s.cancelTurn()
	return true
}

// Reset empties the conversation. A turn in flight is abandoned and cannot write into
// the emptied session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.closed = true
}

func (s *Session) resetLocked() {
	s.generation++
	if s.cancelTurn != nil {
		s.cancelTurn()
		s.cancelTurn = nil
	}
	s.messages = nil
	s.awaiting = false
}

// SetSelection follows the workspace's file tree. A selected file wins over a folder;
// with neither the whole tender is in scope. A turn already in flight keeps the scope it
// started with.
func (s *Session) SetSelection(fileId, folderPath string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case fileId != "":
		s.scope, s.scopeTarget = entity.ChatScopeFile, fileId
	case folderPath != "":
		s.scope, s.scopeTarget = entity.ChatScopeFolder, folderPath
	default:
		s.scope, s.scopeTarget = entity.ChatScopeEntire, ""
	}
}

// SetScope overrides the scope for the next turn until the selection changes again.
func (s *Session) SetScope(scope entity.ChatScope, target string) error {
	switch scope {
	case entity.ChatScopeFile, entity.ChatScopeFolder:
		if strings.TrimSpace(target) == "" {
			return fmt.Errorf("scope %s needs a target: %w", scope, apperr.ErrInvalidInput)
		}
	case entity.ChatScopeEntire:
		target = ""
	default:
		return fmt.Errorf("unknown scope %q: %w", scope, apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope, s.scopeTarget = scope, target
	return nil
}

func (s *Session) Scope() (entity.ChatScope, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scope, s.scopeTarget
}

func (s *Session) Messages() []entity.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.ChatMessage, len(s.messages))
	for i, m := range s.messages {
		out[i] = m.Clone()
	}
	return out
}

func (s *Session) IsAwaitingResponse() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.awaiting
}
