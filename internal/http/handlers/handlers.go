// Handler wiring.
//
// Handlers groups the HTTP endpoints for swipes, conversations, messages, and
// account lifecycle. It depends on abstract service interfaces to keep
// transport concerns separate from business logic.
package handlers

import (
	"context"

	"github.com/kindred-app/kindred-backend/internal/domain"
	"github.com/kindred-app/kindred-backend/internal/services"
)

// ConversationService defines conversation read operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConversationService interface {
	// Get fetches a conversation the requester participates in.
	Get(ctx context.Context, userID, conversationID string) (*domain.Conversation, error)
	// ListForUser returns the requester's annotated conversation listing.
	ListForUser(ctx context.Context, userID string) ([]services.ConversationView, error)
}

// MessageService defines message send and retrieval operations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type MessageService interface {
	// Send appends a message to an unlocked conversation.
	Send(ctx context.Context, conversationID, senderID, raw string) (*domain.Message, error)
	// SendIntroduction places the one-shot pre-match message after a like.
	SendIntroduction(ctx context.Context, likerID, likedID, raw string) (*domain.Message, error)
	// ListPage returns a page of messages within a conversation and the total count.
	ListPage(ctx context.Context, userID, conversationID string, page, pageSize int) ([]domain.Message, int64, error)
}

// AccountService defines the account deletion cascade.
type AccountService interface {
	// Delete removes an account, preserving shared conversation history for
	// surviving counterparts and purging unreachable conversations.
	Delete(ctx context.Context, requesterID, userID string) error
}

// Handlers groups HTTP endpoints for the public API.
type Handlers struct {
	swipeSvc   SwipeService
	convSvc    ConversationService
	msgSvc     MessageService
	accountSvc AccountService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(swipeSvc SwipeService, convSvc ConversationService, msgSvc MessageService, accountSvc AccountService) *Handlers {
	return &Handlers{swipeSvc: swipeSvc, convSvc: convSvc, msgSvc: msgSvc, accountSvc: accountSvc}
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}
