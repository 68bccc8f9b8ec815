// Package services – AccountService
//
// This file implements the account deletion cascade. Conversations that would
// end up with both participant slots null are deleted BEFORE the user row;
// the SET NULL foreign-key policy cannot express that conditional deletion.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kindred-app/kindred-backend/internal/repo"
)

// AccountService executes the account deletion cascade.
type AccountService struct {
	DB *gorm.DB
}

// Delete removes userID's account. Only the owner may delete it
// (ErrNotAccountOwner); a missing row yields ErrUserNotFound.
//
// Single transaction, ordered steps:
//  1. purge conversations where this user holds one slot and the other is
//     already null (messages cascade with each conversation);
//  2. sweep any both-null conversation left over from a prior partial failure;
//  3. delete the user row: SET NULL clears this user's slot in surviving
//     conversations and the sender id on their messages, CASCADE clears
//     likes and passes;
//  4. delete the user's sessions.
//
// No reader ever observes a transiently both-null conversation.
func (s *AccountService) Delete(ctx context.Context, requesterID, userID string) error {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if requesterID != userID {
		return ErrNotAccountOwner
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repo.GetUser(ctx, tx, userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		halfOrphaned, err := repo.ListHalfOrphanedForUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		for i := range halfOrphaned {
			if err := repo.DeleteConversation(ctx, tx, halfOrphaned[i].ID); err != nil {
				return err
			}
		}

		if _, err := repo.DeleteFullyOrphanedConversations(ctx, tx); err != nil {
			return err
		}

		if err := repo.DeleteUser(ctx, tx, userID); err != nil {
			return err
		}

		return repo.DeleteSessionsForUser(ctx, tx, userID)
	})
}
