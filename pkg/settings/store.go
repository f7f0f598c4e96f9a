package settings

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

type Store interface {
	Current(ctx context.Context) (Settings, error)
	UpdateCalDav(ctx context.Context, url, username, password string) error
	UpdateOpenAiApiKey(ctx context.Context, apiKey string) error
}

// MemoryStore keeps settings in memory for the lifetime of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	settings Settings
}

func NewMemoryStore(initial Settings) *MemoryStore {
	return &MemoryStore{settings: initial}
}

func (s *MemoryStore) Current(ctx context.Context) (Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, nil
}

func (s *MemoryStore) UpdateCalDav(ctx context.Context, url, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.CalDavURL = url
	s.settings.CalDavUsername = username
	s.settings.CalDavPassword = password
	log.Debugf("CalDAV settings updated for %s", url)
	return nil
}

func (s *MemoryStore) UpdateOpenAiApiKey(ctx context.Context, apiKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.OpenAiApiKey = apiKey
	log.Debug("OpenAI API key updated")
	return nil
}
