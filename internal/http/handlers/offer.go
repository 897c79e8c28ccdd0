package handlers

import (
	"net/http"
	"strings"

	"junqo/internal/app"
	"junqo/internal/domain/offer"
	"junqo/internal/http/response"
)

type OfferHandler struct {
	offers *app.OfferService
}

func NewOfferHandler(offers *app.OfferService) *OfferHandler {
	return &OfferHandler{offers: offers}
}

func offerQueryFrom(r *http.Request) offer.Query {
	query := r.URL.Query()
	offset, limit := parsePagination(r)
	q := offer.Query{
		Title:            strings.TrimSpace(query.Get("title")),
		Status:           offer.Status(strings.ToUpper(query.Get("status"))),
		OfferType:        offer.Type(strings.ToUpper(query.Get("offer_type"))),
		WorkLocationType: offer.WorkContext(strings.ToUpper(query.Get("work_location_type"))),
		Offset:           offset,
		Limit:            limit,
	}
	if skills := query.Get("skills"); skills != "" {
		q.Skills = strings.Split(skills, ",")
	}
	return q
}

func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	userID, err := queryUUID(r, "user_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	q := offerQueryFrom(r)
	q.UserID = userID
	result, err := h.offers.FindByQuery(r.Context(), p, q)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *OfferHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.offers.ListMine(r.Context(), p, offerQueryFrom(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.offers.FindOneByID(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type offerRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Status           string   `json:"status"`
	OfferType        string   `json:"offer_type"`
	WorkLocationType string   `json:"work_location_type"`
	Duration         int      `json:"duration"`
	Salary           int      `json:"salary"`
	EducationLevel   string   `json:"education_level"`
	Skills           []string `json:"skills"`
	Benefits         []string `json:"benefits"`
}

func (req offerRequest) toDomain() offer.Offer {
	return offer.Offer{
		Title:            req.Title,
		Description:      req.Description,
		Status:           offer.Status(strings.ToUpper(req.Status)),
		OfferType:        offer.Type(strings.ToUpper(req.OfferType)),
		WorkLocationType: offer.WorkContext(strings.ToUpper(req.WorkLocationType)),
		Duration:         req.Duration,
		Salary:           req.Salary,
		EducationLevel:   req.EducationLevel,
		Skills:           req.Skills,
		Benefits:         req.Benefits,
	}
}

func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req offerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.offers.Create(r.Context(), p, req.toDomain())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req offerRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated := req.toDomain()
	updated.ID = id
	result, err := h.offers.Update(r.Context(), p, updated)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.offers.Delete(r.Context(), p, id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}

func (h *OfferHandler) MarkSeen(w http.ResponseWriter, r *http.Request) {
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
	first, err := h.offers.MarkSeen(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"first_view": first})
}

func (h *OfferHandler) ListApplied(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.offers.ListApplied(r.Context(), p)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *OfferHandler) Analytics(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.offers.Analytics(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *OfferHandler) CompanyAnalytics(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	companyID, err := queryUUID(r, "company_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	if companyID.IsZero() {
		companyID = p.ID
	}
	result, err := h.offers.CompanyAnalytics(r.Context(), p, companyID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}
