package handlers

import (
	"net/http"

	"junqo/internal/app"
	"junqo/internal/domain/profile"
	"junqo/internal/http/response"
)

type ExperienceHandler struct {
	experiences *app.ExperienceService
}

func NewExperienceHandler(experiences *app.ExperienceService) *ExperienceHandler {
	return &ExperienceHandler{experiences: experiences}
}

type experienceRequest struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Description string   `json:"description"`
	Skills      []string `json:"skills"`
}

func (h *ExperienceHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req experienceRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.experiences.Create(r.Context(), p, profile.Experience{
		StudentProfileID: p.ID,
		Title:            req.Title,
		Company:          req.Company,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Description:      req.Description,
		Skills:           req.Skills,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ExperienceHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	result, err := h.experiences.FindOneByID(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ExperienceHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.experiences.ListByProfile(r.Context(), p, p.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

// ListForProfile serves /student-profiles/{id}/experiences.
func (h *ExperienceHandler) ListForProfile(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	studentID, err := profileIDFromPath(r, p.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	items, err := h.experiences.ListByProfile(r.Context(), p, studentID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ExperienceHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	var req experienceRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.experiences.Update(r.Context(), p, profile.Experience{
		ID:          id,
		Title:       req.Title,
		Company:     req.Company,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		Skills:      req.Skills,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ExperienceHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := h.experiences.Delete(r.Context(), p, id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}
