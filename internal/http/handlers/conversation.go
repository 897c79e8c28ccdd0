package handlers

import (
	"net/http"
	"time"

	"junqo/internal/app"
	"junqo/internal/common"
	"junqo/internal/http/middleware"
	"junqo/internal/http/response"
)

type ConversationHandler struct {
	conversations *app.ConversationService
	limiter       middleware.Limiter
}

func NewConversationHandler(conversations *app.ConversationService, limiter middleware.Limiter) *ConversationHandler {
	return &ConversationHandler{conversations: conversations, limiter: limiter}
}

func (h *ConversationHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.conversations.List(r.Context(), p)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ConversationHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.conversations.FindOneByID(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ConversationHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	offset, limit := parsePagination(r)
	items, err := h.conversations.ListMessages(r.Context(), p, id, limit, offset)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

type messageRequest struct {
	Content string `json:"content"`
}

func (h *ConversationHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := idFromPath(r, 3)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "message:" + p.ID.String()
		if !h.limiter.Allow(key, 30, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "message rate limit exceeded", nil))
			return
		}
	}
	created, err := h.conversations.SendMessage(r.Context(), p, id, req.Content)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}
