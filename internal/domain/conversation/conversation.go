package conversation

import (
	"context"
	"time"

	"junqo/internal/common"
)

type Conversation struct {
	ID                common.UUID            `json:"id"`
	OfferID           common.UUID            `json:"offer_id,omitempty"`
	ApplicationID     common.UUID            `json:"application_id,omitempty"`
	Title             string                 `json:"title"`
	ParticipantsIDs   []common.UUID          `json:"participants_ids"`
	ParticipantTitles map[common.UUID]string `json:"participant_titles,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

func (c Conversation) HasParticipant(userID common.UUID) bool {
	for _, id := range c.ParticipantsIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type Message struct {
	ID             common.UUID `json:"id"`
	ConversationID common.UUID `json:"conversation_id"`
	SenderID       common.UUID `json:"sender_id"`
	Content        string      `json:"content"`
	CreatedAt      time.Time   `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, c Conversation) (*Conversation, error)
	GetByID(ctx context.Context, id common.UUID) (*Conversation, error)
	GetByApplicationID(ctx context.Context, applicationID common.UUID) (*Conversation, error)
	ListByParticipant(ctx context.Context, userID common.UUID) ([]Conversation, error)
	CreateMessage(ctx context.Context, m Message) (*Message, error)
	ListMessages(ctx context.Context, conversationID common.UUID, limit, offset int) ([]Message, error)
}
