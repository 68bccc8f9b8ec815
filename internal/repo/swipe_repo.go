// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Like and
// Pass models, the two independent directed swipe logs.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a row is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - Duplicate inserts on the (liker, liked) / (passer, passed) unique pairs
//     are mapped to ErrDuplicate so services can surface 409 Conflict.
//   - Other DB errors are propagated raw.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kindred-app/kindred-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicate indicates an insert collided with a uniqueness constraint
// (an already-recorded swipe pair, conversation pair, or idempotency key).
var ErrDuplicate = errors.New("duplicate")

// isUniqueViolation reports whether err is a unique-constraint failure.
// glebarez/sqlite often returns plain-text errors for UNIQUE violations,
// so the message is inspected in addition to gorm's sentinel.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique")
}

// CreateLike inserts a directed like edge. Returns ErrDuplicate when the
// ordered pair already exists.
func CreateLike(ctx context.Context, db *gorm.DB, likerID, likedID string) (*domain.Like, error) {
	l := &domain.Like{
		ID:        uuid.NewString(),
		LikerID:   likerID,
		LikedID:   likedID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(l).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return l, nil
}

// DeleteLike removes the (likerID, likedID) edge. Returns ErrNotFound when no
// such edge exists.
func DeleteLike(ctx context.Context, db *gorm.DB, likerID, likedID string) error {
	res := db.WithContext(ctx).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Delete(&domain.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LikeExists reports whether the directed edge likerID→likedID is recorded.
func LikeExists(ctx context.Context, db *gorm.DB, likerID, likedID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Like{}).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Count(&n).Error
	return n > 0, err
}

// CreatePass inserts a directed pass edge. Returns ErrDuplicate when the
// ordered pair already exists.
func CreatePass(ctx context.Context, db *gorm.DB, passerID, passedID string) (*domain.Pass, error) {
	p := &domain.Pass{
		ID:        uuid.NewString(),
		PasserID:  passerID,
		PassedID:  passedID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return p, nil
}

// DeletePass removes the (passerID, passedID) edge. Returns ErrNotFound when
// no such edge exists.
func DeletePass(ctx context.Context, db *gorm.DB, passerID, passedID string) error {
	res := db.WithContext(ctx).
		Where("passer_id = ? AND passed_id = ?", passerID, passedID).
		Delete(&domain.Pass{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
