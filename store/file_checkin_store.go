package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Checkin is one daily wellness check-in entry.
type Checkin struct {
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	Mood        string    `json:"mood"`
	EnergyLevel string    `json:"energy_level"`
	Objectives  []string  `json:"objectives"`
	Stressors   string    `json:"stressors"`
	Timestamp   time.Time `json:"timestamp"`
}

// CheckinStore keeps the wellness check-in history.
type CheckinStore interface {
	SaveCheckin(ctx context.Context, c *Checkin) error
	History(ctx context.Context) ([]*Checkin, error)
	// LastCheckin returns the most recent entry, or (nil, nil) when no
	// check-in has been recorded yet.
	LastCheckin(ctx context.Context) (*Checkin, error)
	Close() error
}

// FileCheckinStore appends check-ins to a single JSON history file,
// the same shape the original wellness log used.
type FileCheckinStore struct {
	path   string
	mu     sync.Mutex
	closed bool
}

// NewFileCheckinStore creates a file-based check-in store. The history
// file is created on first save.
func NewFileCheckinStore(baseDir string) (*FileCheckinStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create wellness directory: %w", err)
	}
	return &FileCheckinStore{path: filepath.Join(baseDir, "wellness_log.json")}, nil
}

func (s *FileCheckinStore) load() ([]*Checkin, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var history []*Checkin
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("corrupt wellness log: %w", err)
	}
	return history, nil
}

func (s *FileCheckinStore) SaveCheckin(ctx context.Context, c *Checkin) error {
	if c == nil {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	now := time.Now()
	if c.Timestamp.IsZero() {
		c.Timestamp = now
	}
	if c.Date == "" {
		c.Date = now.Format("2006-01-02")
	}
	if c.Time == "" {
		c.Time = now.Format("15:04:05")
	}

	history, err := s.load()
	if err != nil {
		return err
	}
	history = append(history, c)

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return err
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, s.path)
}

func (s *FileCheckinStore) History(ctx context.Context) ([]*Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	return s.load()
}

func (s *FileCheckinStore) LastCheckin(ctx context.Context) (*Checkin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	history, err := s.load()
	if err != nil {
		return nil, err
	}
	// An empty history is a normal first run, not an error.
	if len(history) == 0 {
		return nil, nil
	}
	return history[len(history)-1], nil
}

func (s *FileCheckinStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ensure FileCheckinStore implements CheckinStore
var _ CheckinStore = (*FileCheckinStore)(nil)
