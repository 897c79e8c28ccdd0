package app

import (
	"context"
	"strings"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/domain/conversation"
)

type ConversationService struct {
	repo conversation.Repository
}

func NewConversationService(repo conversation.Repository) *ConversationService {
	return &ConversationService{repo: repo}
}

func (s *ConversationService) List(ctx context.Context, p ability.Principal) ([]conversation.Conversation, error) {
	items, err := s.repo.ListByParticipant(ctx, p.ID)
	if err != nil {
		return nil, common.Wrap(err, "failed to list conversations")
	}
	return items, nil
}

func (s *ConversationService) FindOneByID(ctx context.Context, p ability.Principal, id common.UUID) (*conversation.Conversation, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, common.Wrap(err, "failed to fetch conversation")
	}
	if !ability.Can(p, ability.ActionRead, ability.ConversationResource{ParticipantIDs: c.ParticipantsIDs}) {
		return nil, common.NewError(common.CodeForbidden, "you are not a participant in this conversation", nil)
	}
	return c, nil
}

func (s *ConversationService) SendMessage(ctx context.Context, p ability.Principal, conversationID common.UUID, content string) (*conversation.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.NewValidationError("invalid message", map[string]string{"content": "content is required"})
	}
	c, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, common.Wrap(err, "failed to send message")
	}
	if !ability.Can(p, ability.ActionUpdate, ability.ConversationResource{ParticipantIDs: c.ParticipantsIDs}) {
		return nil, common.NewError(common.CodeForbidden, "you are not a participant in this conversation", nil)
	}
	m, err := s.repo.CreateMessage(ctx, conversation.Message{
		ConversationID: conversationID,
		SenderID:       p.ID,
		Content:        content,
	})
	if err != nil {
		return nil, common.Wrap(err, "failed to send message")
	}
	return m, nil
}

func (s *ConversationService) ListMessages(ctx context.Context, p ability.Principal, conversationID common.UUID, limit, offset int) ([]conversation.Message, error) {
	c, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, common.Wrap(err, "failed to list messages")
	}
	if !ability.Can(p, ability.ActionRead, ability.ConversationResource{ParticipantIDs: c.ParticipantsIDs}) {
		return nil, common.NewError(common.CodeForbidden, "you are not a participant in this conversation", nil)
	}
	items, err := s.repo.ListMessages(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, common.Wrap(err, "failed to list messages")
	}
	return items, nil
}
