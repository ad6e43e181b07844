package shell

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"snsbuilder/internal/domain"
	"snsbuilder/internal/strategy"
)

// ErrorMessage is the only failure text shells show to users.
const ErrorMessage = "콘텐츠를 생성하는 중 오류가 발생했습니다. 다시 시도해주세요."

// ErrBusy is returned when a submit arrives while another one is in flight.
var ErrBusy = errors.New("generation is already in progress")

// StrategyGenerator is the adapter call a session drives.
type StrategyGenerator interface {
	GenerateStrategy(ctx context.Context, topic string) (domain.StrategyResult, error)
}

type State struct {
	Topic   string
	Loading bool
	Result  *domain.StrategyResult
	Error   string
}

// Session holds the state of one shell (a page render, a chat, a terminal run).
type Session struct {
	mu        sync.Mutex
	state     State
	generator StrategyGenerator
	log       *slog.Logger
}

func NewSession(generator StrategyGenerator, log *slog.Logger) *Session {
	return &Session{
		generator: generator,
		log:       log,
	}
}

// Submit runs one generation for topic. It returns false without touching
// the state when topic is blank, and ErrBusy when a generation is running.
func (s *Session) Submit(ctx context.Context, topic string) (bool, error) {
	if strings.TrimSpace(topic) == "" {
		return false, nil
	}

	s.mu.Lock()
	if s.state.Loading {
		s.mu.Unlock()

		return false, ErrBusy
	}
	s.state = State{
		Topic:   topic,
		Loading: true,
	}
	s.mu.Unlock()

	result, err := s.generator.GenerateStrategy(ctx, topic)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Loading = false

	if err != nil {
		var genErr *strategy.GenerationError
		authFailure := errors.As(err, &genErr) && genErr.IsAuth()

		s.log.ErrorContext(ctx, "Failed to submit topic",
			"error", err,
			"authFailure", authFailure,
			"topicLen", len(topic))

		s.state.Error = ErrorMessage

		return true, nil
	}

	s.state.Result = &result

	return true, nil
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state
	if s.state.Result != nil {
		result := *s.state.Result
		snapshot.Result = &result
	}

	return snapshot
}

// CopyText returns the markdown of the current result for the copy action.
func (s *Session) CopyText() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Result == nil {
		return "", false
	}

	return s.state.Result.Text, true
}
