// Package simulator stands in for a streaming inference backend. Answers come from the
// knowledge base and are released fragment by fragment with a randomised delay.
package simulator

import (
	"context"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"bidwizer-be/internal/entity"
	"bidwizer-be/internal/pkg/logger"
	"bidwizer-be/pkg/knowledge"
)

const (
	defaultMinDelay = 30 * time.Millisecond
	defaultMaxDelay = 80 * time.Millisecond
)

var fragmentPattern = regexp.MustCompile(`\s*\S+`)

type Simulator struct {
	minDelay time.Duration
	maxDelay time.Duration
	logger   logger.ILogger

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Simulator)

// WithSeed makes the delay sequence reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// New clamps the delay window so that every fragment waits a bounded, non-zero time.
func New(minDelay, maxDelay time.Duration, log logger.ILogger, opts ...Option) *Simulator {
	if minDelay <= 0 {
		minDelay = time.Millisecond
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	s := &Simulator{
		minDelay: minDelay,
		maxDelay: maxDelay,
		logger:   log,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewDefault(log logger.ILogger) *Simulator {
	return New(defaultMinDelay, defaultMaxDelay, log)
}

func ScopePhrase(scope entity.ChatScope) string {
	switch scope {
	case entity.ChatScopeFile:
		return "the selected document"
	case entity.ChatScopeFolder:
		return "documents in this folder"
	default:
		return "the tender documents"
	}
}

// Render is the complete answer a streamed response adds up to.
func (s *Simulator) Render(question string, scope entity.ChatScope) string {
	topic := knowledge.Lookup(question)
	return strings.ReplaceAll(knowledge.Answer(topic), knowledge.ScopePlaceholder, ScopePhrase(scope))
}

// Fragments splits text at whitespace boundaries. Each fragment keeps the whitespace in
// front of it, and trailing whitespace rides on the last one, so joining gives text back.
func Fragments(text string) []string {
	locs := fragmentPattern.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	out := make([]string, len(locs))
	for i, loc := range locs {
		out[i] = text[loc[0]:loc[1]]
	}
	if end := locs[len(locs)-1][1]; end < len(text) {
		out[len(out)-1] += text[end:]
	}
	return out
}

// Respond streams the answer on the returned channel, which is closed after the last
// fragment or as soon as ctx is done. The stream cannot be restarted.
func (s *Simulator) Respond(ctx context.Context, question string, scope entity.ChatScope, target string) <-chan string {
	fragments := Fragments(s.Render(question, scope))
	s.logger.Debug("Simulator", "Streaming response", map[string]interface{}{
		"topic":     string(knowledge.Lookup(question)),
		"scope":     string(scope),
		"target":    target,
		"fragments": len(fragments),
	})

	out := make(chan string)
	go func() {
		defer close(out)
		for _, f := range fragments {
			timer := time.NewTimer(s.nextDelay())
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}

			select {
			case <-ctx.Done():
				return
			case out <- f:
			}
		}
	}()
	return out
}

// GetCitations resolves the question's topic again. Only budget and requirements
// questions carry citations.
func (s *Simulator) GetCitations(question string) []entity.Citation {
	return knowledge.Citations(knowledge.Lookup(question))
}

func (s *Simulator) nextDelay() time.Duration {
	span := s.maxDelay - s.minDelay
	if span <= 0 {
		return s.minDelay
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.minDelay + time.Duration(s.rng.Int64N(int64(span)+1))
}
