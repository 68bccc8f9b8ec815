package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kindred-app/kindred-backend/internal/domain"
	"github.com/kindred-app/kindred-backend/internal/repo"
	"github.com/kindred-app/kindred-backend/internal/services"
)

func newAcctHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:acct_handlers_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&domain.User{}, &domain.Like{}, &domain.Pass{}, &domain.Conversation{}, &domain.Message{}, &domain.Session{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newAcctRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	h := New(
		&services.SwipeService{DB: db},
		&services.ConversationService{DB: db},
		&services.MessageService{DB: db},
		&services.AccountService{DB: db},
	)

	r := gin.New()
	r.DELETE("/users/:id", h.DeleteAccount)
	return r
}

func TestDeleteAccount_Statuses(t *testing.T) {
	db := newAcctHandlerDB(t)
	r := newAcctRouter(t, db)
	ann := mustUser(t, db, "Ann", true)

	if w := doJSON(t, r, http.MethodDelete, "/users/nope", ann, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("non-uuid: status=%d", w.Code)
	}
	// Deleting somebody else's account is forbidden even if it exists.
	ben := mustUser(t, db, "Ben", true)
	if w := doJSON(t, r, http.MethodDelete, "/users/"+ben, ann, nil); w.Code != http.StatusForbidden {
		t.Fatalf("not owner: status=%d", w.Code)
	}
	// Owner of an id with no backing row.
	ghost := uuid.NewString()
	if w := doJSON(t, r, http.MethodDelete, "/users/"+ghost, ghost, nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing user: status=%d", w.Code)
	}
}

func TestDeleteAccount_CascadePreservesSharedHistory(t *testing.T) {
	db := newAcctHandlerDB(t)
	r := newAcctRouter(t, db)
	ctx := context.Background()
	ann := mustUser(t, db, "Ann", true)
	ben := mustUser(t, db, "Ben", true)

	if _, err := repo.CreateLike(ctx, db, ann, ben); err != nil {
		t.Fatalf("seed like: %v", err)
	}
	conv := seedConv(t, db, &ann, &ben, domain.ConversationActive)
	if _, err := repo.CreateMessage(ctx, db, conv.ID, ann, "hi ben"); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	w := doJSON(t, r, http.MethodDelete, "/users/"+ann, ann, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status=%d body=%s", w.Code, w.Body.String())
	}

	if _, err := repo.GetUser(ctx, db, ann); err == nil {
		t.Fatalf("user row survived deletion")
	}
	var likes int64
	db.Model(&domain.Like{}).Count(&likes)
	if likes != 0 {
		t.Fatalf("likes survived: %d", likes)
	}

	// The conversation survives with Ann's slot nulled; her message keeps its
	// content but loses its author.
	kept, err := repo.GetConversation(ctx, db, conv.ID)
	if err != nil {
		t.Fatalf("conversation purged: %v", err)
	}
	if kept.PresentCount() != 1 || !kept.Participant(ben) {
		t.Fatalf("unexpected slots: %+v", kept)
	}
	msgs, err := repo.ListMessages(ctx, db, conv.ID, 10)
	if err != nil || len(msgs) != 1 {
		t.Fatalf("messages: %v %d", err, len(msgs))
	}
	if msgs[0].SenderID != nil || msgs[0].Content != "hi ben" {
		t.Fatalf("message after cascade: %+v", msgs[0])
	}

	// A second delete finds nothing.
	if w := doJSON(t, r, http.MethodDelete, "/users/"+ann, ann, nil); w.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: status=%d", w.Code)
	}
}
