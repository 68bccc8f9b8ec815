// Package services – ConversationService
//
// This file implements ConversationService, which reads conversation state
// for the API surface. It never mutates lock state: the pending→active
// transition belongs to match resolution (SwipeService), and presence
// transitions belong to the account deletion cascade (AccountService).
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kindred-app/kindred-backend/internal/domain"
	"github.com/kindred-app/kindred-backend/internal/repo"
)

// Placeholder names shown instead of a real counterpart profile.
const (
	// HiddenUserName masks the counterpart until the conversation unlocks.
	HiddenUserName = "Hidden User"
	// DeletedUserName marks a counterpart whose account no longer exists.
	DeletedUserName = "Deleted User"
)

// CounterpartView is the sanitized profile of the other participant as
// exposed in conversation listings. Locked conversations hide the profile;
// deleted counterparts are reduced to a placeholder.
type CounterpartView struct {
	ID        *string `json:"id"`
	Name      string  `json:"name"`
	AvatarURL string  `json:"avatar_url,omitempty"`
	Deleted   bool    `json:"deleted"`
}

// ConversationView is one entry of a user's conversation listing.
type ConversationView struct {
	Conversation domain.Conversation `json:"conversation"`
	OtherUser    CounterpartView     `json:"other_user"`
	LastMessage  *domain.Message     `json:"last_message,omitempty"`
}

// ConversationService provides read access to conversations.
type ConversationService struct {
	DB *gorm.DB
}

// Get fetches a conversation by id and verifies the requester participates
// in it. Returns ErrConversationNotFound or ErrNotParticipant.
func (s *ConversationService) Get(ctx context.Context, userID, conversationID string) (*domain.Conversation, error) {
	conv, err := repo.GetConversation(ctx, s.DB, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	if !conv.Participant(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}

// ListForUser returns every conversation the user participates in, most
// recently active first, each annotated with the latest message and a
// sanitized counterpart view:
//   - real name and avatar when the counterpart exists and the conversation
//     is active;
//   - "Hidden User" while the conversation is still pending;
//   - "Deleted User" when the counterpart slot is null.
func (s *ConversationService) ListForUser(ctx context.Context, userID string) ([]ConversationView, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "ListForUser",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	convs, err := repo.ListConversationsForUser(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	// Collect counterpart ids and resolve profiles in one query.
	ids := make([]string, 0, len(convs))
	for i := range convs {
		if other := convs[i].Counterpart(userID); other != nil {
			ids = append(ids, *other)
		}
	}
	profiles, err := repo.GetUsers(ctx, s.DB, ids)
	if err != nil {
		return nil, err
	}

	out := make([]ConversationView, 0, len(convs))
	for i := range convs {
		conv := convs[i]
		last, err := repo.LatestMessage(ctx, s.DB, conv.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, ConversationView{
			Conversation: conv,
			OtherUser:    counterpartView(&conv, userID, profiles),
			LastMessage:  last,
		})
	}
	return out, nil
}

// counterpartView builds the sanitized view of the participant opposite
// userID.
func counterpartView(conv *domain.Conversation, userID string, profiles map[string]domain.User) CounterpartView {
	other := conv.Counterpart(userID)
	if other == nil {
		return CounterpartView{Name: DeletedUserName, Deleted: true}
	}
	if conv.State.Locked() {
		return CounterpartView{ID: other, Name: HiddenUserName}
	}
	if u, ok := profiles[*other]; ok {
		return CounterpartView{ID: other, Name: u.DisplayName, AvatarURL: u.AvatarURL}
	}
	// Profile row missing despite a populated slot: treat as deleted rather
	// than leaking the raw id through a broken join.
	return CounterpartView{Name: DeletedUserName, Deleted: true}
}
