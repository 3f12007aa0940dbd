package health

import (
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Broadcaster defines the interface for sending WebSocket messages.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{}) error
}

// Service keeps the health state of tracked items.
// All state is in-memory and resets on application restart.
type Service struct {
	items       map[string]*Item
	mu          sync.RWMutex
	broadcaster Broadcaster
	logger      zerolog.Logger
	now         func() time.Time
}

// NewService creates a new health service.
func NewService(logger zerolog.Logger) *Service {
	return &Service{
		items:  make(map[string]*Item),
		logger: logger.With().Str("component", "health").Logger(),
		now:    time.Now,
	}
}

// SetBroadcaster sets the WebSocket broadcaster for real-time updates.
func (s *Service) SetBroadcaster(b Broadcaster) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcaster = b
}

// RegisterItem adds an item with OK status. Registering an existing ID
// resets it.
func (s *Service) RegisterItem(id, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[id] = &Item{ID: id, Name: name, Status: StatusOK}

	s.logger.Debug().
		Str("id", id).
		Str("name", name).
		Msg("Registered health item")
}

// SetError sets an item to Error status with a message.
func (s *Service) SetError(id, message string) {
	s.setStatus(id, StatusError, message)
}

// SetWarning sets an item to Warning status with a message.
func (s *Service) SetWarning(id, message string) {
	s.setStatus(id, StatusWarning, message)
}

// ClearStatus resets an item to OK status.
func (s *Service) ClearStatus(id string) {
	s.setStatus(id, StatusOK, "")
}

func (s *Service) setStatus(id string, status Status, message string) {
	s.mu.Lock()

	item, exists := s.items[id]
	if !exists {
		s.mu.Unlock()
		s.logger.Warn().
			Str("id", id).
			Msg("Attempted to update status for unregistered item")
		return
	}

	if item.Status == status && item.Message == message {
		s.mu.Unlock()
		return
	}

	oldStatus := item.Status
	item.Status = status
	item.Message = message
	if status != StatusOK {
		now := s.now()
		item.Timestamp = &now
	} else {
		item.Timestamp = nil
	}
	updated := *item
	broadcaster := s.broadcaster
	s.mu.Unlock()

	s.logger.Info().
		Str("id", id).
		Str("name", updated.Name).
		Str("oldStatus", string(oldStatus)).
		Str("newStatus", string(status)).
		Str("message", message).
		Msg("Health status changed")

	// outside the lock, the hub may block while its queue drains
	if broadcaster != nil {
		if err := broadcaster.Broadcast(MessageHealthUpdated, updated); err != nil {
			s.logger.Error().Err(err).Msg("Failed to broadcast health update")
		}
	}
}

// GetItem returns a copy of the item, or nil when id is not registered.
func (s *Service) GetItem(id string) *Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		cp := *item
		return &cp
	}
	return nil
}

// IsHealthy returns true if the item is registered and OK.
func (s *Service) IsHealthy(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	return exists && item.Status == StatusOK
}

// GetSummary returns every item ordered by ID.
func (s *Service) GetSummary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := Summary{Items: make([]Item, 0, len(s.items))}
	for _, item := range s.items {
		summary.Items = append(summary.Items, *item)
		if item.Status != StatusOK {
			summary.HasIssues = true
		}
	}
	sort.Slice(summary.Items, func(i, j int) bool {
		return summary.Items[i].ID < summary.Items[j].ID
	})
	return summary
}
