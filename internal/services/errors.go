// Package services defines the business logic for swipes, match resolution,
// conversations, messages, and account lifecycle. This file centralizes
// common service-level error values so that they can be consistently returned
// by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages and HTTP status codes is performed at the
// handler layer.
package services

import "errors"

// Swipe-related errors.
var (
	// ErrSelfSwipe is returned when a user attempts to like or pass on
	// themselves.
	ErrSelfSwipe = errors.New("cannot swipe on yourself")

	// ErrTargetNotFound indicates the swipe target does not exist or is not
	// verified, and therefore cannot be liked or passed on.
	ErrTargetNotFound = errors.New("user not found")

	// ErrDuplicateSwipe is returned when the directed (actor, target) pair
	// has already been recorded in the corresponding log.
	ErrDuplicateSwipe = errors.New("already recorded")

	// ErrLikeNotFound indicates the referenced like edge does not exist.
	ErrLikeNotFound = errors.New("like not found")

	// ErrPassNotFound indicates the referenced pass edge does not exist.
	ErrPassNotFound = errors.New("pass not found")
)

// Conversation- and message-related errors.
var (
	// ErrConversationNotFound indicates the requested conversation does not
	// exist.
	ErrConversationNotFound = errors.New("conversation not found")

	// ErrNotParticipant is returned when the requester does not occupy either
	// slot of the conversation, or when no participants remain at all.
	ErrNotParticipant = errors.New("not a participant of this conversation")

	// ErrCounterpartDeleted is returned when exactly one participant slot is
	// null: history is preserved but messaging is permanently disabled.
	ErrCounterpartDeleted = errors.New("cannot send message: other user has been deleted")

	// ErrConversationLocked is returned when a conversation is still pending
	// (no mutual match yet) and a regular message send is attempted.
	ErrConversationLocked = errors.New("chat is locked until you match")

	// ErrIntroAlreadySent is returned when the liker has already placed their
	// one-shot introduction message in the conversation.
	ErrIntroAlreadySent = errors.New("introduction message already sent")
)

// Account-related errors.
var (
	// ErrNotAccountOwner is returned when a user attempts to delete an
	// account other than their own.
	ErrNotAccountOwner = errors.New("can only delete your own account")

	// ErrUserNotFound indicates the account to delete is already absent.
	ErrUserNotFound = errors.New("user not found")
)
