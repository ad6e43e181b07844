package bot

import (
	"log/slog"
	"sync"

	"snsbuilder/internal/shell"
)

// sessions keeps one shell session per chat for the lifetime of the process.
type sessions struct {
	mu        sync.Mutex
	byChat    map[int64]*shell.Session
	generator shell.StrategyGenerator
	log       *slog.Logger
}

func newSessions(generator shell.StrategyGenerator, log *slog.Logger) *sessions {
	return &sessions{
		byChat:    make(map[int64]*shell.Session),
		generator: generator,
		log:       log,
	}
}

func (s *sessions) get(chatID int64) *shell.Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.byChat[chatID]
	if !ok {
		session = shell.NewSession(s.generator, s.log.With("chatID", chatID))
		s.byChat[chatID] = session
	}

	return session
}

func (s *sessions) lookup(chatID int64) (*shell.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.byChat[chatID]

	return session, ok
}
