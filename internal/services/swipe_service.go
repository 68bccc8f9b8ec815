// Package services – SwipeService
//
// This file implements SwipeService, the application-level component that
// owns the two directed swipe logs (likes and passes) and match resolution.
// Recording a like and evaluating reciprocity are one logical operation: the
// insert, the reciprocal-edge check, and the conversation create-or-activate
// all run inside a single transaction so that two near-simultaneous
// reciprocal likes can neither create two conversations for the same pair nor
// double-fire the unlock.
//
// Observability: public methods are OpenTelemetry-instrumented; spans include
// the actor and target identifiers.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kindred-app/kindred-backend/internal/domain"
	"github.com/kindred-app/kindred-backend/internal/notify"
	"github.com/kindred-app/kindred-backend/internal/repo"
)

// SwipeService coordinates like/pass persistence and match resolution.
type SwipeService struct {
	DB       *gorm.DB
	Notifier notify.Notifier
}

// MatchResult describes the outcome of recording a like.
type MatchResult struct {
	Like *domain.Like
	// Matched is true when this like completed a mutual pair and the
	// conversation became (or was created) active as part of this call.
	// Exactly one of two concurrent reciprocal likes observes true.
	Matched bool
	// ConversationID is set when Matched is true.
	ConversationID string
}

// RecordLike stores the directed edge likerID→likedID and resolves a match.
//
// Validation:
//   - likerID must differ from likedID (ErrSelfSwipe).
//   - The target must exist and be verified (ErrTargetNotFound).
//   - The ordered pair must not already exist (ErrDuplicateSwipe).
//
// When the reciprocal edge exists, the conversation for the unordered pair is
// created active, or an existing pending (introduction-created) conversation
// is flipped to active. The flip is a conditional update, so it happens at
// most once per pair regardless of arrival order or concurrency. A match
// notification is dispatched after the transaction commits.
func (s *SwipeService) RecordLike(ctx context.Context, likerID, likedID string) (*MatchResult, error) {
	tr := otel.Tracer("services/SwipeService")
	ctx, span := tr.Start(ctx, "RecordLike",
		trace.WithAttributes(
			attribute.String("liker.id", likerID),
			attribute.String("liked.id", likedID),
		),
	)
	defer span.End()

	if likerID == likedID {
		return nil, ErrSelfSwipe
	}

	res := &MatchResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := repo.GetUser(ctx, tx, likedID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTargetNotFound
			}
			return err
		}
		if !target.Verified {
			return ErrTargetNotFound
		}

		like, err := repo.CreateLike(ctx, tx, likerID, likedID)
		if err != nil {
			if errors.Is(err, repo.ErrDuplicate) {
				return ErrDuplicateSwipe
			}
			return err
		}
		res.Like = like

		reciprocal, err := repo.LikeExists(ctx, tx, likedID, likerID)
		if err != nil {
			return err
		}
		if !reciprocal {
			return nil
		}

		conv, created, err := repo.FindOrCreateConversation(ctx, tx, likerID, likedID, domain.ConversationActive)
		if err != nil {
			return err
		}
		if created {
			res.Matched = true
		} else {
			// Introduction-created conversations start pending; the second
			// reciprocal like activates them here, in the same transaction
			// as its insert. Already-active conversations are left alone.
			flipped, err := repo.ActivateConversation(ctx, tx, conv.ID)
			if err != nil {
				return err
			}
			res.Matched = flipped
		}
		if res.Matched {
			res.ConversationID = conv.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if res.Matched && s.Notifier != nil {
		a, b, convID := likerID, likedID, res.ConversationID
		notify.Async(func(ctx context.Context) {
			s.Notifier.MatchFound(ctx, a, b, convID)
		})
	}
	return res, nil
}

// RemoveLike deletes the likerID→likedID edge. An already-active conversation
// is untouched: there is no de-match.
func (s *SwipeService) RemoveLike(ctx context.Context, likerID, likedID string) error {
	tr := otel.Tracer("services/SwipeService")
	ctx, span := tr.Start(ctx, "RemoveLike")
	defer span.End()

	if err := repo.DeleteLike(ctx, s.DB, likerID, likedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLikeNotFound
		}
		return err
	}
	return nil
}

// HasLiked reports whether likerID has a recorded like toward likedID.
func (s *SwipeService) HasLiked(ctx context.Context, likerID, likedID string) (bool, error) {
	return repo.LikeExists(ctx, s.DB, likerID, likedID)
}

// RecordPass stores the directed edge passerID→passedID in the pass log.
// Passing carries no match semantics and does not block a later like from
// either side.
func (s *SwipeService) RecordPass(ctx context.Context, passerID, passedID string) (*domain.Pass, error) {
	tr := otel.Tracer("services/SwipeService")
	ctx, span := tr.Start(ctx, "RecordPass",
		trace.WithAttributes(
			attribute.String("passer.id", passerID),
			attribute.String("passed.id", passedID),
		),
	)
	defer span.End()

	if passerID == passedID {
		return nil, ErrSelfSwipe
	}

	target, err := repo.GetUser(ctx, s.DB, passedID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}
	if !target.Verified {
		return nil, ErrTargetNotFound
	}

	p, err := repo.CreatePass(ctx, s.DB, passerID, passedID)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateSwipe
		}
		return nil, err
	}
	return p, nil
}

// RemovePass deletes the passerID→passedID edge.
func (s *SwipeService) RemovePass(ctx context.Context, passerID, passedID string) error {
	tr := otel.Tracer("services/SwipeService")
	ctx, span := tr.Start(ctx, "RemovePass")
	defer span.End()

	if err := repo.DeletePass(ctx, s.DB, passerID, passedID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPassNotFound
		}
		return err
	}
	return nil
}
