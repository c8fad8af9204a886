package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCaseStore is a Redis-based implementation of CaseStore.
// Suitable for distributed deployments where several worker processes
// serve conversations against the same case book.
//
// Layout:
//   - <prefix>case:data:<id>        JSON-encoded FraudCase
//   - <prefix>case:pending:<name>   sorted set of pending case IDs per
//     normalized customer name, scored by ID so the lowest ID wins lookup
//   - <prefix>case:seq              ID sequence
type RedisCaseStore struct {
	client    *redis.Client
	keyPrefix string
}

// redisCase is the persistence encoding for Redis. FraudCase redacts the
// security answer from its public JSON form, so the store carries the full
// record in a private shape with its own tags.
type redisCase struct {
	ID               uint       `json:"id"`
	CustomerName     string     `json:"customer_name"`
	CardLast4        string     `json:"card_last4"`
	Status           CaseStatus `json:"status"`
	Merchant         string     `json:"merchant"`
	Amount           float64    `json:"amount"`
	TxTime           time.Time  `json:"tx_time"`
	Category         string     `json:"category"`
	Source           string     `json:"source"`
	Location         string     `json:"location"`
	SecurityQuestion string     `json:"security_question"`
	SecurityAnswer   string     `json:"security_answer"`
	OutcomeNote      string     `json:"outcome_note"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toRedisCase(c *FraudCase) redisCase {
	return redisCase{
		ID:               c.ID,
		CustomerName:     c.CustomerName,
		CardLast4:        c.CardLast4,
		Status:           c.Status,
		Merchant:         c.Merchant,
		Amount:           c.Amount,
		TxTime:           c.TxTime,
		Category:         c.Category,
		Source:           c.Source,
		Location:         c.Location,
		SecurityQuestion: c.SecurityQuestion,
		SecurityAnswer:   c.SecurityAnswer,
		OutcomeNote:      c.OutcomeNote,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (rc redisCase) fraudCase() *FraudCase {
	return &FraudCase{
		ID:               rc.ID,
		CustomerName:     rc.CustomerName,
		CardLast4:        rc.CardLast4,
		Status:           rc.Status,
		Merchant:         rc.Merchant,
		Amount:           rc.Amount,
		TxTime:           rc.TxTime,
		Category:         rc.Category,
		Source:           rc.Source,
		Location:         rc.Location,
		SecurityQuestion: rc.SecurityQuestion,
		SecurityAnswer:   rc.SecurityAnswer,
		OutcomeNote:      rc.OutcomeNote,
		CreatedAt:        rc.CreatedAt,
		UpdatedAt:        rc.UpdatedAt,
	}
}

// setStatusScript flips a case to a terminal status only while it is still
// pending_review, in one atomic server-side step. Returns 1 on success,
// 0 when already resolved, -1 when missing.
var setStatusScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then return -1 end
local c = cjson.decode(raw)
if c.status ~= 'pending_review' then return 0 end
c.status = ARGV[1]
c.outcome_note = ARGV[2]
c.updated_at = ARGV[3]
redis.call('SET', KEYS[1], cjson.encode(c))
redis.call('ZREM', KEYS[2], ARGV[4])
return 1
`)

// NewRedisCaseStore creates a new Redis-based case store.
func NewRedisCaseStore(client *redis.Client, keyPrefix string) (*RedisCaseStore, error) {
	if client == nil {
		return nil, ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	if keyPrefix == "" {
		keyPrefix = "voiceagents:"
	}
	return &RedisCaseStore{
		client:    client,
		keyPrefix: keyPrefix + "case:",
	}, nil
}

func (s *RedisCaseStore) dataKey(id uint) string {
	return fmt.Sprintf("%sdata:%d", s.keyPrefix, id)
}

func (s *RedisCaseStore) pendingKey(name string) string {
	return s.keyPrefix + "pending:" + normalizeName(name)
}

func (s *RedisCaseStore) seqKey() string {
	return s.keyPrefix + "seq"
}

func (s *RedisCaseStore) Create(ctx context.Context, c *FraudCase) error {
	if c == nil {
		return ErrInvalidInput
	}

	if c.ID == 0 {
		id, err := s.client.Incr(ctx, s.seqKey()).Result()
		if err != nil {
			return err
		}
		c.ID = uint(id)
	}
	if c.Status == "" {
		c.Status = StatusPendingReview
	}
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	data, err := json.Marshal(toRedisCase(c))
	if err != nil {
		return fmt.Errorf("failed to marshal case: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.dataKey(c.ID), data, 0)
	if c.Status == StatusPendingReview {
		pipe.ZAdd(ctx, s.pendingKey(c.CustomerName), redis.Z{
			Score:  float64(c.ID),
			Member: fmt.Sprintf("%d", c.ID),
		})
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisCaseStore) GetByID(ctx context.Context, id uint) (*FraudCase, error) {
	data, err := s.client.Get(ctx, s.dataKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rc redisCase
	if err := json.Unmarshal(data, &rc); err != nil {
		return nil, err
	}
	return rc.fraudCase(), nil
}

func (s *RedisCaseStore) FindPendingByName(ctx context.Context, name string) (*FraudCase, error) {
	// Lowest-scored member is the lowest case ID, matching the gorm
	// backend's primary-key order.
	ids, err := s.client.ZRange(ctx, s.pendingKey(name), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	for _, raw := range ids {
		var id uint
		if _, err := fmt.Sscanf(raw, "%d", &id); err != nil {
			continue
		}
		c, err := s.GetByID(ctx, id)
		if err != nil {
			continue
		}
		// The index can lag a concurrent resolution; re-check status.
		if c.Status == StatusPendingReview {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *RedisCaseStore) SetStatus(ctx context.Context, id uint, status CaseStatus, note string) error {
	if !status.IsTerminal() {
		return ErrInvalidStatus
	}

	c, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	res, err := setStatusScript.Run(ctx, s.client,
		[]string{s.dataKey(id), s.pendingKey(c.CustomerName)},
		string(status), note, time.Now().Format(time.RFC3339Nano), fmt.Sprintf("%d", id),
	).Int()
	if err != nil {
		return err
	}
	switch res {
	case 1:
		return nil
	case 0:
		return ErrCaseResolved
	default:
		return ErrNotFound
	}
}

func (s *RedisCaseStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisCaseStore) Close() error {
	return s.client.Close()
}

// Ensure RedisCaseStore implements CaseStore
var _ CaseStore = (*RedisCaseStore)(nil)
