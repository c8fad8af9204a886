package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OrderItem is one line of a placed order.
type OrderItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order is an immutable snapshot of a cart at placement time. Details
// carries assistant-specific fields (drink size, milk, extras for the
// barista; delivery notes for food orders).
type Order struct {
	ID        string            `json:"id"`
	Agent     string            `json:"agent"`
	Customer  string            `json:"customer,omitempty"`
	Items     []OrderItem       `json:"items"`
	Total     float64           `json:"total"`
	Details   map[string]string `json:"details,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
}

// OrderStore persists placed orders.
type OrderStore interface {
	SaveOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	ListOrders(ctx context.Context) ([]*Order, error)
	Close() error
}

// FileOrderStore writes one JSON file per order under a base directory,
// mirroring the orders/ directory the voice platform's reviewers read.
// Suitable for single-node deployments.
type FileOrderStore struct {
	baseDir string
	mu      sync.RWMutex
	closed  bool
}

// NewFileOrderStore creates a file-based order store rooted at baseDir.
func NewFileOrderStore(baseDir string) (*FileOrderStore, error) {
	dir := filepath.Join(baseDir, "orders")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create orders directory: %w", err)
	}
	return &FileOrderStore{baseDir: dir}, nil
}

func (s *FileOrderStore) orderPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// SaveOrder persists an order. A missing ID is assigned; the timestamp is
// stamped at save time. The write is atomic (temp file + rename).
func (s *FileOrderStore) SaveOrder(ctx context.Context, o *Order) error {
	if o == nil {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Timestamp.IsZero() {
		o.Timestamp = time.Now()
	}

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal order: %w", err)
	}

	path := s.orderPath(o.ID)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return err
	}
	return os.Rename(tempPath, path)
}

func (s *FileOrderStore) GetOrder(ctx context.Context, id string) (*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	data, err := os.ReadFile(s.orderPath(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var o Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *FileOrderStore) ListOrders(ctx context.Context) ([]*Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	orders := make([]*Order, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, e.Name()))
		if err != nil {
			continue
		}
		var o Order
		if err := json.Unmarshal(data, &o); err != nil {
			continue
		}
		orders = append(orders, &o)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].Timestamp.Before(orders[j].Timestamp)
	})
	return orders, nil
}

func (s *FileOrderStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ensure FileOrderStore implements OrderStore
var _ OrderStore = (*FileOrderStore)(nil)
