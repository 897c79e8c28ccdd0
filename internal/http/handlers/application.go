package handlers

import (
	"net/http"
	"strings"
	"time"

	"junqo/internal/app"
	"junqo/internal/common"
	"junqo/internal/domain/application"
	"junqo/internal/http/middleware"
	"junqo/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, limiter: limiter}
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	studentID, err := queryUUID(r, "student_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	offerID, err := queryUUID(r, "offer_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	offset, limit := parsePagination(r)
	q := application.Query{
		StudentID: studentID,
		OfferID:   offerID,
		Status:    application.NormalizeStatus(application.Status(r.URL.Query().Get("status"))),
		Offset:    offset,
		Limit:     limit,
	}
	result, err := h.applications.FindByQuery(r.Context(), p, q)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.applications.FindOneByID(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type applyRequest struct {
	OfferID string `json:"offer_id"`
}

func (h *ApplicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req applyRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	offerID, err := common.ParseUUID(strings.TrimSpace(req.OfferID))
	if err != nil {
		response.Error(w, common.NewValidationError("invalid offer_id", map[string]string{"offer_id": "invalid uuid"}))
		return
	}
	if h.limiter != nil {
		key := "apply:" + offerID.String() + ":" + p.ID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "apply rate limit exceeded", nil))
			return
		}
	}
	created, err := h.applications.Create(r.Context(), p, offerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *ApplicationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
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
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.applications.Update(r.Context(), p, id, application.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.applications.Delete(r.Context(), p, id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}

func (h *ApplicationHandler) MarkAsOpened(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.applications.MarkAsOpened(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type preAcceptRequest struct {
	StudentID string `json:"student_id"`
	OfferID   string `json:"offer_id"`
}

func (h *ApplicationHandler) PreAccept(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req preAcceptRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	studentID, err := common.ParseUUID(strings.TrimSpace(req.StudentID))
	if err != nil {
		response.Error(w, common.NewValidationError("invalid student_id", map[string]string{"student_id": "invalid uuid"}))
		return
	}
	offerID, err := common.ParseUUID(strings.TrimSpace(req.OfferID))
	if err != nil {
		response.Error(w, common.NewValidationError("invalid offer_id", map[string]string{"offer_id": "invalid uuid"}))
		return
	}
	result, err := h.applications.PreAccept(r.Context(), p, studentID, offerID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type bulkStatusRequest struct {
	ApplicationIDs []string `json:"application_ids"`
	Status         string   `json:"status"`
}

func (h *ApplicationHandler) BulkUpdateStatus(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req bulkStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	ids := make([]common.UUID, 0, len(req.ApplicationIDs))
	for _, raw := range req.ApplicationIDs {
		id, err := common.ParseUUID(strings.TrimSpace(raw))
		if err != nil {
			response.Error(w, common.NewValidationError("invalid application_ids", map[string]string{"application_ids": "contains an invalid uuid"}))
			return
		}
		ids = append(ids, id)
	}
	result, err := h.applications.BulkUpdateStatus(r.Context(), p, ids, application.Status(req.Status))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
