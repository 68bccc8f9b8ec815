// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Conversation model.
//
// Every lookup and insert goes through the canonical pair key (see
// domain.PairKey) so that the unordered pair {X,Y} always addresses one
// physical row regardless of argument order.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kindred-app/kindred-backend/internal/domain"
)

// FindConversationByPair returns the conversation for the unordered pair
// {x, y}, or ErrNotFound.
func FindConversationByPair(ctx context.Context, db *gorm.DB, x, y string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).
		Where("pair_key = ?", domain.PairKey(x, y)).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FindOrCreateConversation returns the conversation for {x, y}, creating it
// with the given initial state when absent. The second return value reports
// whether a new row was created.
//
// A raced concurrent create collapses on the unique pair key; the loser of
// the race re-reads the winner's row, so callers always observe exactly one
// conversation per pair.
func FindOrCreateConversation(ctx context.Context, db *gorm.DB, x, y string, initial domain.ConversationState) (*domain.Conversation, bool, error) {
	if c, err := FindConversationByPair(ctx, db, x, y); err == nil {
		return c, false, nil
	} else if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	a, b := domain.OrderPair(x, y)
	now := time.Now().UTC()
	c := &domain.Conversation{
		ID:        uuid.NewString(),
		UserAID:   &a,
		UserBID:   &b,
		PairKey:   domain.PairKey(x, y),
		State:     initial,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			existing, ferr := FindConversationByPair(ctx, db, x, y)
			if ferr != nil {
				return nil, false, ferr
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return c, true, nil
}

// GetConversation fetches a conversation by id, or ErrNotFound.
func GetConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ActivateConversation transitions a conversation from pending to active.
// The conditional WHERE makes the transition idempotent under concurrent
// reciprocal likes: exactly one caller flips the state, later callers are
// no-ops. The returned bool reports whether this call performed the flip.
func ActivateConversation(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ? AND state = ?", id, domain.ConversationPending).
		Updates(map[string]any{
			"state":      domain.ConversationActive,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// TouchConversation bumps updated_at, used after appending a message so
// listings sort by recent activity.
func TouchConversation(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", id).
		Update("updated_at", time.Now().UTC()).Error
}

// ListConversationsForUser returns all conversations where the user occupies
// either slot, most recently updated first.
func ListConversationsForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at desc").
		Find(&out).Error
	return out, err
}

// ListHalfOrphanedForUser returns conversations where userID holds one slot
// and the other slot is already NULL. Deleting this user would turn these
// into unreachable both-NULL rows, so the account deletion cascade removes
// them up front.
func ListHalfOrphanedForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Where("(user_a_id = ? AND user_b_id IS NULL) OR (user_b_id = ? AND user_a_id IS NULL)", userID, userID).
		Find(&out).Error
	return out, err
}

// DeleteConversation removes a conversation row; its messages cascade away
// with it. This is the only way messages are ever deleted.
func DeleteConversation(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&domain.Conversation{}).Error
}

// DeleteFullyOrphanedConversations removes any conversation whose both slots
// are NULL. Such rows can only exist after a partial failure of an earlier
// deletion cascade; sweeping them is idempotent garbage collection.
func DeleteFullyOrphanedConversations(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).
		Where("user_a_id IS NULL AND user_b_id IS NULL").
		Delete(&domain.Conversation{})
	return res.RowsAffected, res.Error
}
