// Swipe HTTP handlers.
//
// This file exposes REST endpoints for the two directed swipe logs:
//   - POST   /likes                  (record a like; may complete a match)
//   - DELETE /likes/{userId}         (unlike)
//   - GET    /likes/check/{userId}   (existence probe for the UI)
//   - POST   /passes                 (record a pass)
//   - DELETE /passes/{userId}        (unpass)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. Status codes are contractual:
// 400 malformed/self-swipe, 404 target invalid or unverified, 409 duplicate.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kindred-app/kindred-backend/internal/domain"
	"github.com/kindred-app/kindred-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// SwipeService defines swipe and match-resolution operations consumed by the
// HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type SwipeService interface {
	// RecordLike stores a directed like and resolves a mutual match.
	RecordLike(ctx context.Context, likerID, likedID string) (*services.MatchResult, error)
	// RemoveLike deletes a previously recorded like.
	RemoveLike(ctx context.Context, likerID, likedID string) error
	// HasLiked reports whether the directed like edge exists.
	HasLiked(ctx context.Context, likerID, likedID string) (bool, error)
	// RecordPass stores a directed pass.
	RecordPass(ctx context.Context, passerID, passedID string) (*domain.Pass, error)
	// RemovePass deletes a previously recorded pass.
	RemovePass(ctx context.Context, passerID, passedID string) error
}

// userID extracts the authenticated requester id from Gin context (set by
// upstream auth middleware). If absent, it falls back to the "X-User-ID"
// header (tests use it), and finally to "demo-user". It never touches
// c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

// pathUserID validates the ":userId" route parameter as a UUID.
func pathUserID(c *gin.Context) (string, bool) {
	id := c.Param("userId")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id must be a UUID")
		return "", false
	}
	return id, true
}

//
// DTOs
//

// SwipeRequest is the JSON payload for recording a like or a pass.
type SwipeRequest struct {
	// UserID is the swipe target.
	UserID string `json:"user_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// LikeResponse wraps a recorded like and the match outcome.
type LikeResponse struct {
	Like *domain.Like `json:"like"`
	// Matched is true when this like completed a mutual pair.
	Matched bool `json:"matched"`
	// ConversationID identifies the unlocked conversation when Matched.
	ConversationID string `json:"conversation_id,omitempty"`
}

// CheckLikeResponse reports whether the requester has liked the target.
type CheckLikeResponse struct {
	IsLiked bool `json:"is_liked"`
}

//
// Handlers
//

// RecordLike godoc
// @ID          recordLike
// @Summary     Like a user
// @Description Records a directed like. When the reciprocal like exists this completes a match and unlocks the conversation.
// @Tags        Swipes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Requester user ID"  example(user123)
// @Param       body       body    handlers.SwipeRequest  true  "Like payload"
//
// @Success     201  {object}  handlers.LikeResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Missing or self target"
// @Failure     404  {object}  handlers.ErrorResponse  "Target invalid or unverified"
// @Failure     409  {object}  handlers.ErrorResponse  "Already liked"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /likes [post]
func (h *Handlers) RecordLike(c *gin.Context) {
	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id required")
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id must be a UUID")
		return
	}

	res, err := h.swipeSvc.RecordLike(c.Request.Context(), userID(c), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfSwipe):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrTargetNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		case errors.Is(err, services.ErrDuplicateSwipe):
			fail(c, http.StatusConflict, ErrCodeConflict, "already liked")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, LikeResponse{
		Like:           res.Like,
		Matched:        res.Matched,
		ConversationID: res.ConversationID,
	})
}

// RemoveLike godoc
// @ID          removeLike
// @Summary     Unlike a user
// @Tags        Swipes
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Requester user ID"  example(user123)
// @Param       userId     path    string  true  "Liked user ID (UUID)"  format(uuid)
//
// @Success     200  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Like not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /likes/{userId} [delete]
func (h *Handlers) RemoveLike(c *gin.Context) {
	target, okID := pathUserID(c)
	if !okID {
		return
	}
	if err := h.swipeSvc.RemoveLike(c.Request.Context(), userID(c), target); err != nil {
		if errors.Is(err, services.ErrLikeNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"status": "removed"})
}

// CheckLike godoc
// @ID          checkLike
// @Summary     Check whether the requester has liked a user
// @Tags        Swipes
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Requester user ID"  example(user123)
// @Param       userId     path    string  true  "Target user ID (UUID)"  format(uuid)
//
// @Success     200  {object}  handlers.CheckLikeResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /likes/check/{userId} [get]
func (h *Handlers) CheckLike(c *gin.Context) {
	target, okID := pathUserID(c)
	if !okID {
		return
	}
	liked, err := h.swipeSvc.HasLiked(c.Request.Context(), userID(c), target)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, CheckLikeResponse{IsLiked: liked})
}

// RecordPass godoc
// @ID          recordPass
// @Summary     Pass on a user
// @Description Records a directed pass. Independent of the like log: a pass never blocks a later like from either side.
// @Tags        Swipes
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Requester user ID"  example(user123)
// @Param       body       body    handlers.SwipeRequest  true  "Pass payload"
//
// @Success     201  {object}  domain.Pass
// @Failure     400  {object}  handlers.ErrorResponse "Missing or self target"
// @Failure     404  {object}  handlers.ErrorResponse "Target invalid or unverified"
// @Failure     409  {object}  handlers.ErrorResponse "Already passed"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /passes [post]
func (h *Handlers) RecordPass(c *gin.Context) {
	var req SwipeRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id required")
		return
	}
	if _, err := uuid.Parse(req.UserID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id must be a UUID")
		return
	}

	p, err := h.swipeSvc.RecordPass(c.Request.Context(), userID(c), req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSelfSwipe):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrTargetNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		case errors.Is(err, services.ErrDuplicateSwipe):
			fail(c, http.StatusConflict, ErrCodeConflict, "already passed")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, p)
}

// RemovePass godoc
// @ID          removePass
// @Summary     Remove a pass on a user
// @Tags        Swipes
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Requester user ID"  example(user123)
// @Param       userId     path    string  true  "Passed user ID (UUID)"  format(uuid)
//
// @Success     200  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Pass not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /passes/{userId} [delete]
func (h *Handlers) RemovePass(c *gin.Context) {
	target, okID := pathUserID(c)
	if !okID {
		return
	}
	if err := h.swipeSvc.RemovePass(c.Request.Context(), userID(c), target); err != nil {
		if errors.Is(err, services.ErrPassNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, gin.H{"status": "removed"})
}
