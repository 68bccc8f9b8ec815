// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model
// and the session artifacts tied to it.
//
// User rows are owned by the external identity service; this layer only
// creates them on provisioning events, reads id/verified for swipe targets,
// and hard-deletes them as the final step of the account deletion cascade.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kindred-app/kindred-backend/internal/domain"
)

// CreateUser inserts a user row. ID may be empty, in which case a UUID is
// generated.
func CreateUser(ctx context.Context, db *gorm.DB, id, displayName, avatarURL string, verified bool) (*domain.User, error) {
	if id == "" {
		id = uuid.NewString()
	}
	u := &domain.User{
		ID:          id,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		Verified:    verified,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by id, or ErrNotFound.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUsers fetches a set of users by id and returns them keyed by id. Missing
// ids are simply absent from the map. Used to annotate conversation listings
// in one query instead of one lookup per row.
func GetUsers(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.User
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = u
	}
	return out, nil
}

// DeleteUser hard-deletes a user row, firing the declared FK policies:
// CASCADE on likes, passes, and sessions; SET NULL on conversation slots and
// message sender ids. Returns ErrNotFound when the row is already absent.
func DeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateSession inserts a session artifact for a user.
func CreateSession(ctx context.Context, db *gorm.DB, userID string, ttl time.Duration) (*domain.Session, error) {
	now := time.Now().UTC()
	s := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
	return s, db.WithContext(ctx).Create(s).Error
}

// DeleteSessionsForUser removes every session tied to a user.
func DeleteSessionsForUser(ctx context.Context, db *gorm.DB, userID string) error {
	return db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.Session{}).Error
}
