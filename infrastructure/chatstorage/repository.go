package chatstorage

import (
	"context"
	"time"

	"github.com/AzielCF/az-meta/domains/message"
	"github.com/AzielCF/az-meta/pkg/emitter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoredEvent is one persisted canonical inbound event. The unique index on
// (instance, source, message id) makes webhook replays idempotent: the
// pipeline itself never dedups, downstream storage does.
type StoredEvent struct {
	ID           uint   `gorm:"primaryKey"`
	InstanceName string `gorm:"index:idx_event_identity,unique;size:128"`
	Source       string `gorm:"index:idx_event_identity,unique;size:32"`
	MessageID    string `gorm:"index:idx_event_identity,unique;size:256"`
	SenderID     string `gorm:"index;size:128"`
	Kind         string `gorm:"size:16"`
	Body         string
	Postback     string
	Raw          string
	Timestamp    int64
	CreatedAt    time.Time
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&StoredEvent{}); err != nil {
		return nil, err
	}
	return &Repository{db: db}, nil
}

// HandleEvent is the emitter subscription entry point.
func (r *Repository) HandleEvent(event string, payload emitter.EventPayload) {
	if event != message.EventMessagesUpsert {
		return
	}
	if err := r.SaveBatch(context.Background(), payload.Data); err != nil {
		logrus.Errorf("[CHATSTORAGE] Failed to persist %d event(s) for instance %s: %v", len(payload.Data), payload.InstanceName, err)
	}
}

// SaveBatch persists the events in order. Conflicting rows (same instance,
// source and provider message id) are left untouched.
func (r *Repository) SaveBatch(ctx context.Context, events []message.InboundEvent) error {
	if len(events) == 0 {
		return nil
	}

	rows := make([]StoredEvent, 0, len(events))
	for _, ev := range events {
		msgID := ev.MessageID
		if msgID == "" {
			// Some Messenger events carry no mid; a surrogate keeps the
			// unique index from swallowing them.
			msgID = "local-" + uuid.NewString()
		}
		rows = append(rows, StoredEvent{
			InstanceName: ev.InstanceName,
			Source:       ev.Source,
			MessageID:    msgID,
			SenderID:     ev.SenderID,
			Kind:         string(ev.Payload.Kind),
			Body:         ev.Payload.Body,
			Postback:     ev.Payload.Postback,
			Raw:          string(ev.Payload.Raw),
			Timestamp:    ev.Timestamp,
		})
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

// RecentByInstance returns the newest stored events for one instance.
func (r *Repository) RecentByInstance(ctx context.Context, instanceName string, limit int) ([]StoredEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []StoredEvent
	err := r.db.WithContext(ctx).
		Where("instance_name = ?", instanceName).
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// CountByInstance returns how many events one instance has stored.
func (r *Repository) CountByInstance(ctx context.Context, instanceName string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&StoredEvent{}).
		Where("instance_name = ?", instanceName).
		Count(&n).Error
	return n, err
}
