// Package domain defines the persistence models for users, swipes (likes and
// passes), conversations, and messages. These types are mapped with GORM and
// form the core data layer of the dating backend.
//
// Deletion semantics are deliberate: rows in this package are hard-deleted so
// the declared foreign-key policies actually fire. Deleting a user cascades
// away their likes, passes, and sessions, while conversations and messages
// keep their rows and only lose the reference (SET NULL), preserving shared
// history for the surviving participant.
package domain

import (
	"time"
)

// ConversationState gates messaging on a conversation.
//
// A conversation created by an introduction message starts Pending: only the
// single introduction from the original liker may exist in it. Match
// resolution is the sole component allowed to move it to Active.
type ConversationState string

const (
	// ConversationPending restricts the conversation to the one introduction
	// message sent before a match exists.
	ConversationPending ConversationState = "pending"
	// ConversationActive is a fully open conversation between matched users.
	ConversationActive ConversationState = "active"
)

// Locked reports whether messaging through the generic send endpoint is still
// gated behind a match.
func (s ConversationState) Locked() bool { return s != ConversationActive }

// OrderPair returns the two user ids in canonical order: the lexicographically
// smaller id first. Every conversation lookup and insert goes through this so
// the pairs (X,Y) and (Y,X) always address the same physical row.
func OrderPair(x, y string) (a, b string) {
	if x <= y {
		return x, y
	}
	return y, x
}

// PairKey builds the canonical unique key for an unordered user pair.
func PairKey(x, y string) string {
	a, b := OrderPair(x, y)
	return a + "|" + b
}

// User is the slice of identity this core needs: a stable id, a verified flag,
// and the public profile fields surfaced in conversation listings. The row is
// owned by the external identity service; this backend reads it and deletes it
// when the account is removed.
type User struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(64);not null"`
	AvatarURL   string    `json:"avatar_url"   gorm:"type:varchar(512)"`
	Verified    bool      `json:"verified"     gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Like is a directed swipe edge: LikerID liked LikedID. At most one row exists
// per ordered pair (unique index). Rows are immutable; they disappear only via
// an explicit unlike or the cascade when either account is deleted.
//
// A like never implies a pass or vice versa; the two logs are independent.
type Like struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	LikerID   string    `json:"liker_id" gorm:"type:char(36);not null;uniqueIndex:ux_like_pair,priority:1"`
	LikedID   string    `json:"liked_id" gorm:"type:char(36);not null;uniqueIndex:ux_like_pair,priority:2;index"`
	CreatedAt time.Time `json:"created_at"`

	// Both ends cascade: a deleted account leaves no dangling swipe edges.
	Liker User `json:"-" gorm:"foreignKey:LikerID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Liked User `json:"-" gorm:"foreignKey:LikedID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Like.
func (Like) TableName() string { return "likes" }

// Pass is a directed "not interested" edge, structurally identical to Like but
// kept in its own table. Passing does not block a later like from either side.
type Pass struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	PasserID  string    `json:"passer_id" gorm:"type:char(36);not null;uniqueIndex:ux_pass_pair,priority:1"`
	PassedID  string    `json:"passed_id" gorm:"type:char(36);not null;uniqueIndex:ux_pass_pair,priority:2;index"`
	CreatedAt time.Time `json:"created_at"`

	Passer User `json:"-" gorm:"foreignKey:PasserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Passed User `json:"-" gorm:"foreignKey:PassedID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Pass.
func (Pass) TableName() string { return "passes" }

// Conversation is the messaging channel for an unordered pair of users.
//
// Fields:
//   - UserAID / UserBID: the participants, canonical order (A = lexicographic
//     min at creation time). Either slot becomes NULL when that account is
//     deleted. A row with both slots NULL must never persist; the account
//     deletion cascade converts that transition directly into row deletion.
//   - PairKey: canonical "a|b" key, unique. Concurrent creates for the same
//     pair collapse into a single row via this constraint.
//   - State: pending (intro-only) or active (matched). The pending→active
//     transition happens at most once, inside match resolution.
type Conversation struct {
	ID        string            `json:"id"        gorm:"type:char(36);primaryKey"`
	UserAID   *string           `json:"user_a_id" gorm:"type:char(36);index"`
	UserBID   *string           `json:"user_b_id" gorm:"type:char(36);index"`
	PairKey   string            `json:"-"         gorm:"type:varchar(80);not null;uniqueIndex:ux_conversation_pair"`
	State     ConversationState `json:"state"     gorm:"type:varchar(16);not null;default:'pending';check:state IN ('pending','active')"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`

	// SET NULL keeps the conversation (and its history) alive for the
	// surviving participant when the other account is deleted.
	UserA *User `json:"-" gorm:"foreignKey:UserAID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
	UserB *User `json:"-" gorm:"foreignKey:UserBID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// Participant reports whether userID occupies one of the two slots.
func (c *Conversation) Participant(userID string) bool {
	return (c.UserAID != nil && *c.UserAID == userID) ||
		(c.UserBID != nil && *c.UserBID == userID)
}

// Counterpart returns the id of the slot opposite userID, or nil when that
// participant's account has been deleted.
func (c *Conversation) Counterpart(userID string) *string {
	if c.UserAID != nil && *c.UserAID == userID {
		return c.UserBID
	}
	return c.UserAID
}

// PresentCount returns how many participant slots are still populated.
func (c *Conversation) PresentCount() int {
	n := 0
	if c.UserAID != nil {
		n++
	}
	if c.UserBID != nil {
		n++
	}
	return n
}

// Message is a single utterance within a conversation. Append-only: messages
// are never edited or deleted directly, only removed when their conversation
// is cascade-deleted. SenderID is nulled when the author's account is deleted;
// content and timestamp survive.
type Message struct {
	ID             string    `json:"id"              gorm:"type:char(36);primaryKey"`
	ConversationID string    `json:"conversation_id" gorm:"type:char(36);not null;index:idx_conv_msgs,priority:1"`
	SenderID       *string   `json:"sender_id"       gorm:"type:char(36);index"`
	Content        string    `json:"content"         gorm:"type:text;not null"`
	CreatedAt      time.Time `json:"created_at"      gorm:"index:idx_conv_msgs,priority:2"`
	UpdatedAt      time.Time `json:"updated_at"`

	Conversation Conversation `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Sender       *User        `json:"-" gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// Session is an authentication artifact tied to an account; rows cascade away
// when the account is deleted as the last step of the deletion sequence.
type Session struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Session.
func (Session) TableName() string { return "sessions" }
