package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"valet-board-backend/internal/model"
)

// gormStore implements Store on top of GORM.
type gormStore struct {
	db       *gorm.DB
	notifier *Notifier
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db, notifier: NewNotifier()}
}

func (s *gormStore) Notifier() *Notifier {
	return s.notifier
}

func (s *gormStore) InsertTicket(ctx context.Context, t *model.Ticket) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("failed to insert ticket: %w", err)
	}
	s.notifier.Pulse(TableTickets)
	return nil
}

func (s *gormStore) UpdateTicket(ctx context.Context, storeID, id string, p Patch) (int64, error) {
	if len(p) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("id = ? AND store_id = ?", id, storeID).
		Updates(map[string]any(p))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update ticket %s: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		s.notifier.Pulse(TableTickets)
	}
	return res.RowsAffected, nil
}

func (s *gormStore) ListTickets(ctx context.Context, storeID string) ([]model.Ticket, error) {
	var tickets []model.Ticket
	err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (s *gormStore) InsertSalesPickup(ctx context.Context, p *model.SalesPickup) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to insert sales pickup: %w", err)
	}
	s.notifier.Pulse(TableSalesPickups)
	return nil
}

func (s *gormStore) UpdateSalesPickup(ctx context.Context, storeID, id string, p Patch) (int64, error) {
	if len(p) == 0 {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&model.SalesPickup{}).
		Where("id = ? AND store_id = ?", id, storeID).
		Updates(map[string]any(p))
	if res.Error != nil {
		return 0, fmt.Errorf("failed to update sales pickup %s: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		s.notifier.Pulse(TableSalesPickups)
	}
	return res.RowsAffected, nil
}

func (s *gormStore) ListSalesPickups(ctx context.Context, storeID string) ([]model.SalesPickup, error) {
	var pickups []model.SalesPickup
	err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("requested_at ASC").
		Find(&pickups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sales pickups: %w", err)
	}
	return pickups, nil
}

func (s *gormStore) InsertAuditEvent(ctx context.Context, e *model.AuditEvent) error {
	// Audit writes never pulse the notifier; nothing on a board changes.
	return s.db.WithContext(ctx).Create(e).Error
}

func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"store_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	return s.db.WithContext(ctx).Delete(&model.PushSubscription{}, "endpoint = ?", endpoint).Error
}

func (s *gormStore) ListSubscriptions(ctx context.Context, storeID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).Where("store_id = ?", storeID).Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}
