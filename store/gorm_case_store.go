package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormCaseStore is a gorm-backed implementation of CaseStore. It works
// against sqlite, postgres and mysql; the dialector is chosen by the
// caller (see internal/database.Open).
type GormCaseStore struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormCaseStore creates a gorm-backed case store and migrates the
// fraud_cases table.
func NewGormCaseStore(db *gorm.DB, logger *zap.Logger) (*GormCaseStore, error) {
	if db == nil {
		return nil, ErrInvalidInput
	}
	if err := db.AutoMigrate(&FraudCase{}); err != nil {
		return nil, err
	}
	return &GormCaseStore{
		db:     db,
		logger: logger.With(zap.String("component", "case_store")),
	}, nil
}

func (s *GormCaseStore) Create(ctx context.Context, c *FraudCase) error {
	if c == nil {
		return ErrInvalidInput
	}
	if c.Status == "" {
		c.Status = StatusPendingReview
	}
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormCaseStore) GetByID(ctx context.Context, id uint) (*FraudCase, error) {
	var c FraudCase
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *GormCaseStore) FindPendingByName(ctx context.Context, name string) (*FraudCase, error) {
	var c FraudCase
	err := s.db.WithContext(ctx).
		Where("LOWER(customer_name) = ? AND status = ?", normalizeName(name), StatusPendingReview).
		Order("id").
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// SetStatus performs a conditioned single-row UPDATE so the pending_review
// guard and the write are one atomic statement. Zero rows affected means
// the case either does not exist or was already resolved; the follow-up
// read tells the two apart.
func (s *GormCaseStore) SetStatus(ctx context.Context, id uint, status CaseStatus, note string) error {
	if !status.IsTerminal() {
		return ErrInvalidStatus
	}

	res := s.db.WithContext(ctx).
		Model(&FraudCase{}).
		Where("id = ? AND status = ?", id, StatusPendingReview).
		Updates(map[string]any{
			"status":       status,
			"outcome_note": note,
			"updated_at":   time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := s.GetByID(ctx, id); errors.Is(err, ErrNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return ErrCaseResolved
	}

	s.logger.Info("case resolved",
		zap.Uint("case_id", id),
		zap.String("status", string(status)),
	)
	return nil
}

func (s *GormCaseStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormCaseStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure GormCaseStore implements CaseStore
var _ CaseStore = (*GormCaseStore)(nil)
