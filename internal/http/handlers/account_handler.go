// Account HTTP handlers.
//
// This file exposes the account deletion endpoint:
//   - DELETE /users/{id}
//
// Only the owner may delete their own account. The cascade preserves shared
// conversation history for surviving counterparts and purges conversations
// nobody can reach anymore; see services.AccountService for the ordering.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kindred-app/kindred-backend/internal/services"
)

// DeleteAccount godoc
// @ID          deleteAccount
// @Summary     Delete the requester's account
// @Description Removes the account. Conversations with a surviving counterpart are kept with this user's slot nulled; fully orphaned conversations are purged.
// @Tags        Account
// @Produce     json
//
// @Param       X-User-ID  header  string  true  "Requester user ID"  example(user123)
// @Param       id         path    string  true  "Account ID (UUID; must match requester)"  format(uuid)
//
// @Success     200  {object}  map[string]string
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     403  {object}  handlers.ErrorResponse "Not the account owner"
// @Failure     404  {object}  handlers.ErrorResponse "User not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /users/{id} [delete]
func (h *Handlers) DeleteAccount(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user id must be a UUID")
		return
	}

	if err := h.accountSvc.Delete(c.Request.Context(), userID(c), id); err != nil {
		switch {
		case errors.Is(err, services.ErrNotAccountOwner):
			fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, gin.H{"status": "deleted"})
}
