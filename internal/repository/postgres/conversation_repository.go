package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"junqo/internal/common"
	"junqo/internal/domain/conversation"
)

type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create inserts the conversation and its participants in one transaction.
func (r *ConversationRepository) Create(ctx context.Context, c conversation.Conversation) (*conversation.Conversation, error) {
	c.ID = common.NewUUID()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO conversations (id, offer_id, application_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		c.ID, nullUUID(c.OfferID), nullUUID(c.ApplicationID), c.Title, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "conversation already exists for this application", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create conversation", err)
	}
	for _, participantID := range c.ParticipantsIDs {
		title := c.ParticipantTitles[participantID]
		if _, err := tx.ExecContext(ctx, `INSERT INTO conversation_participants (conversation_id, user_id, participant_title)
			VALUES ($1, $2, $3)`, c.ID, participantID, title); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to add conversation participant", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit conversation", err)
	}
	return &c, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id common.UUID) (*conversation.Conversation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, offer_id, application_id, title, created_at, updated_at
		FROM conversations WHERE id = $1`, id)
	c, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "conversation not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load conversation", err)
	}
	if err := r.loadParticipants(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ConversationRepository) GetByApplicationID(ctx context.Context, applicationID common.UUID) (*conversation.Conversation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, offer_id, application_id, title, created_at, updated_at
		FROM conversations WHERE application_id = $1`, applicationID)
	c, err := scanConversation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "conversation not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load conversation", err)
	}
	if err := r.loadParticipants(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ConversationRepository) ListByParticipant(ctx context.Context, userID common.UUID) ([]conversation.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT c.id, c.offer_id, c.application_id, c.title, c.created_at, c.updated_at
		FROM conversations c
		JOIN conversation_participants p ON p.conversation_id = c.id
		WHERE p.user_id = $1
		ORDER BY c.updated_at DESC`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list conversations", err)
	}
	defer rows.Close()
	var items []conversation.Conversation
	for rows.Next() {
		c, err := scanConversation(rows)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan conversation", err)
		}
		items = append(items, *c)
	}
	for i := range items {
		if err := r.loadParticipants(ctx, &items[i]); err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (r *ConversationRepository) CreateMessage(ctx context.Context, m conversation.Message) (*conversation.Message, error) {
	m.ID = common.NewUUID()
	m.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `INSERT INTO messages (id, conversation_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		m.ID, m.ConversationID, m.SenderID, m.Content, m.CreatedAt)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create message", err)
	}
	_, _ = r.db.ExecContext(ctx, `UPDATE conversations SET updated_at = $1 WHERE id = $2`, m.CreatedAt, m.ConversationID)
	return &m, nil
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID common.UUID, limit, offset int) ([]conversation.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `SELECT id, conversation_id, sender_id, content, created_at
		FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`,
		conversationID, limit, offset)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list messages", err)
	}
	defer rows.Close()
	var items []conversation.Message
	for rows.Next() {
		var m conversation.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.Content, &m.CreatedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan message", err)
		}
		items = append(items, m)
	}
	return items, nil
}

func scanConversation(row interface{ Scan(...any) error }) (*conversation.Conversation, error) {
	var c conversation.Conversation
	var offerID, applicationID sql.NullString
	if err := row.Scan(&c.ID, &offerID, &applicationID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.OfferID = common.UUID(offerID.String)
	c.ApplicationID = common.UUID(applicationID.String)
	return &c, nil
}

func (r *ConversationRepository) loadParticipants(ctx context.Context, c *conversation.Conversation) error {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, participant_title FROM conversation_participants
		WHERE conversation_id = $1`, c.ID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to load conversation participants", err)
	}
	defer rows.Close()
	c.ParticipantsIDs = nil
	c.ParticipantTitles = make(map[common.UUID]string)
	for rows.Next() {
		var userID common.UUID
		var title string
		if err := rows.Scan(&userID, &title); err != nil {
			return common.NewError(common.CodeInternal, "failed to scan conversation participant", err)
		}
		c.ParticipantsIDs = append(c.ParticipantsIDs, userID)
		if title != "" {
			c.ParticipantTitles[userID] = title
		}
	}
	return nil
}
