// Package services – MessageService
//
// This file implements MessageService, which owns message sends and listing.
// Sends run a fixed gate order: participant, presence, lock, then content.
// Introduction messages are the one pre-match exception: they may create the
// conversation themselves, locked, and are one-shot per liker per pair.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kindred-app/kindred-backend/internal/content"
	"github.com/kindred-app/kindred-backend/internal/domain"
	"github.com/kindred-app/kindred-backend/internal/notify"
	"github.com/kindred-app/kindred-backend/internal/repo"
)

// MessageService coordinates message persistence and send authorization.
type MessageService struct {
	DB       *gorm.DB
	Notifier notify.Notifier
}

// Send appends a message from senderID to an unlocked conversation.
//
// Gate order (first failure wins):
//  1. conversation must exist (ErrConversationNotFound);
//  2. senderID must occupy a slot; both slots null also reads as
//     ErrNotParticipant;
//  3. exactly one null slot means the counterpart is gone
//     (ErrCounterpartDeleted);
//  4. a pending conversation rejects regular sends (ErrConversationLocked);
//  5. content must pass sanitization (content.ErrEmpty / content.ErrTooLong).
//
// The insert and the conversation's updated_at bump are one transaction. A
// message notification is dispatched after commit.
func (s *MessageService) Send(ctx context.Context, conversationID, senderID, raw string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("sender.id", senderID),
		),
	)
	defer span.End()

	conv, err := repo.GetConversation(ctx, s.DB, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	if !conv.Participant(senderID) {
		return nil, ErrNotParticipant
	}
	if conv.PresentCount() == 1 {
		return nil, ErrCounterpartDeleted
	}
	if conv.State.Locked() {
		return nil, ErrConversationLocked
	}

	clean, err := content.Sanitize(raw)
	if err != nil {
		return nil, err
	}

	var msg *domain.Message
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := repo.CreateMessage(ctx, tx, conversationID, senderID, clean)
		if err != nil {
			return err
		}
		msg = m
		return repo.TouchConversation(ctx, tx, conversationID)
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		if other := conv.Counterpart(senderID); other != nil {
			recipient := *other
			notify.Async(func(ctx context.Context) {
				s.Notifier.MessageSent(ctx, senderID, recipient, conversationID)
			})
		}
	}
	return msg, nil
}

// SendIntroduction places the single pre-match message likerID may send to a
// like target.
//
// Semantics:
//   - a Like(liker→liked) row must exist (ErrLikeNotFound);
//   - the conversation for the pair is created pending when absent; an
//     existing conversation (matched or not) keeps its state untouched;
//   - at most one message from this sender may exist in the conversation
//     (ErrIntroAlreadySent).
func (s *MessageService) SendIntroduction(ctx context.Context, likerID, likedID, raw string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "SendIntroduction",
		trace.WithAttributes(
			attribute.String("liker.id", likerID),
			attribute.String("liked.id", likedID),
		),
	)
	defer span.End()

	clean, err := content.Sanitize(raw)
	if err != nil {
		return nil, err
	}

	var msg *domain.Message
	var conv *domain.Conversation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		liked, err := repo.LikeExists(ctx, tx, likerID, likedID)
		if err != nil {
			return err
		}
		if !liked {
			return ErrLikeNotFound
		}

		c, _, err := repo.FindOrCreateConversation(ctx, tx, likerID, likedID, domain.ConversationPending)
		if err != nil {
			return err
		}
		conv = c

		already, err := repo.SenderHasMessage(ctx, tx, c.ID, likerID)
		if err != nil {
			return err
		}
		if already {
			return ErrIntroAlreadySent
		}

		m, err := repo.CreateMessage(ctx, tx, c.ID, likerID, clean)
		if err != nil {
			return err
		}
		msg = m
		return repo.TouchConversation(ctx, tx, c.ID)
	})
	if err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		notify.Async(func(ctx context.Context) {
			s.Notifier.MessageSent(ctx, likerID, likedID, conv.ID)
		})
	}
	return msg, nil
}

// ListPage returns a page of messages for a conversation the requester
// participates in. Ordering is deterministic (CreatedAt ASC, ID ASC).
func (s *MessageService) ListPage(ctx context.Context, userID, conversationID string, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	conv, err := repo.GetConversation(ctx, s.DB, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, ErrConversationNotFound
		}
		return nil, 0, err
	}
	// Reading history stays allowed even when the counterpart is deleted;
	// only sending is gated. A conversation with no participants left should
	// not exist, but if observed it is unreadable.
	if !conv.Participant(userID) {
		return nil, 0, ErrNotParticipant
	}

	total, err := repo.CountMessages(ctx, s.DB, conversationID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Message{}, 0, nil
	}

	items, err := repo.ListMessagesPage(ctx, s.DB, conversationID, offset, pageSize)
	return items, total, err
}
