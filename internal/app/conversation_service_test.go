package app

import (
	"context"
	"testing"

	"junqo/internal/ability"
	"junqo/internal/common"
	"junqo/internal/domain/conversation"
	"junqo/internal/domain/user"
)

func seedConversation(t *testing.T, repo *fakeConversationRepo, participants ...common.UUID) *conversation.Conversation {
	t.Helper()
	created, err := repo.Create(context.Background(), conversation.Conversation{
		Title:           "Application Discussion - Backend Internship",
		ParticipantsIDs: participants,
	})
	if err != nil {
		t.Fatalf("expected conversation created, got %v", err)
	}
	return created
}

func TestConversationServiceGet_ParticipantsOnly(t *testing.T) {
	repo := newFakeConversationRepo()
	service := NewConversationService(repo)
	student := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	outsider := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	conv := seedConversation(t, repo, student.ID, company.ID)

	if _, err := service.FindOneByID(context.Background(), student, conv.ID); err != nil {
		t.Fatalf("expected participant to read conversation, got %v", err)
	}
	if _, err := service.FindOneByID(context.Background(), outsider, conv.ID); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
	admin := ability.Principal{ID: common.NewUUID(), Type: user.TypeAdmin}
	if _, err := service.FindOneByID(context.Background(), admin, conv.ID); err != nil {
		t.Fatalf("expected admin to read conversation, got %v", err)
	}
}

func TestConversationServiceSendMessage(t *testing.T) {
	repo := newFakeConversationRepo()
	service := NewConversationService(repo)
	student := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	company := ability.Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	outsider := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	conv := seedConversation(t, repo, student.ID, company.ID)

	sent, err := service.SendMessage(context.Background(), student, conv.ID, "Bonjour")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if sent.SenderID != student.ID {
		t.Fatalf("expected sender %s, got %s", student.ID, sent.SenderID)
	}
	if _, err := service.SendMessage(context.Background(), outsider, conv.ID, "hi"); !common.Is(err, common.CodeForbidden) {
		t.Fatalf("expected forbidden for outsider, got %v", err)
	}
	if _, err := service.SendMessage(context.Background(), student, conv.ID, "   "); !common.Is(err, common.CodeValidation) {
		t.Fatalf("expected validation error for empty content, got %v", err)
	}

	messages, err := service.ListMessages(context.Background(), company, conv.ID, 0, 0)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
}

func TestConversationServiceList_OnlyOwnConversations(t *testing.T) {
	repo := newFakeConversationRepo()
	service := NewConversationService(repo)
	student := ability.Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	company := common.NewUUID()
	seedConversation(t, repo, student.ID, company)
	seedConversation(t, repo, common.NewUUID(), company)

	items, err := service.List(context.Background(), student)
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(items))
	}
}
