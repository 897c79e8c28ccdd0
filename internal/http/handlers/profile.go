package handlers

import (
	"net/http"
	"strings"

	"junqo/internal/app"
	"junqo/internal/common"
	"junqo/internal/domain/profile"
	"junqo/internal/http/response"
)

type ProfileHandler struct {
	profiles *app.ProfileService
}

func NewProfileHandler(profiles *app.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

func profileQuery(r *http.Request) profile.Query {
	offset, limit := parsePagination(r)
	q := profile.Query{
		Name:   strings.TrimSpace(r.URL.Query().Get("name")),
		Offset: offset,
		Limit:  limit,
	}
	if skills := r.URL.Query().Get("skills"); skills != "" {
		q.Skills = strings.Split(skills, ",")
	}
	return q
}

// /api/v1/{kind}-profiles/{id} puts the id at index 3; "my" resolves to the
// caller.
func profileIDFromPath(r *http.Request, caller common.UUID) (common.UUID, error) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) < 4 {
		return "", common.NewValidationError("invalid path", map[string]string{"id": "missing id"})
	}
	if parts[3] == "my" {
		return caller, nil
	}
	id, err := common.ParseUUID(parts[3])
	if err != nil {
		return "", common.NewValidationError("invalid id", map[string]string{"id": "invalid uuid"})
	}
	return id, nil
}

func (h *ProfileHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.profiles.FindStudents(r.Context(), p, profileQuery(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ProfileHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := profileIDFromPath(r, p.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.profiles.GetStudent(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Pointer fields so a PATCH only rewrites what the client sent.
type studentProfileRequest struct {
	Name           *string  `json:"name"`
	Avatar         *string  `json:"avatar"`
	Bio            *string  `json:"bio"`
	PhoneNumber    *string  `json:"phone_number"`
	LinkedinURL    *string  `json:"linkedin_url"`
	EducationLevel *string  `json:"education_level"`
	Skills         []string `json:"skills"`
}

func (h *ProfileHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req studentProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	existing, err := h.profiles.GetStudent(r.Context(), p, p.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	applyString(&existing.Name, req.Name)
	applyString(&existing.Avatar, req.Avatar)
	applyString(&existing.Bio, req.Bio)
	applyString(&existing.PhoneNumber, req.PhoneNumber)
	applyString(&existing.LinkedinURL, req.LinkedinURL)
	applyString(&existing.EducationLevel, req.EducationLevel)
	if req.Skills != nil {
		existing.Skills = req.Skills
	}
	result, err := h.profiles.UpdateStudent(r.Context(), p, *existing)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type linkSchoolRequest struct {
	SchoolID string `json:"school_id"`
}

func (h *ProfileHandler) LinkSchool(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req linkSchoolRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	var schoolID common.UUID
	if value := strings.TrimSpace(req.SchoolID); value != "" {
		schoolID, err = common.ParseUUID(value)
		if err != nil {
			response.Error(w, common.NewValidationError("invalid school_id", map[string]string{"school_id": "invalid uuid"}))
			return
		}
	}
	result, err := h.profiles.LinkStudentToSchool(r.Context(), p, p.ID, schoolID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ProfileHandler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.profiles.FindCompanies(r.Context(), p, profileQuery(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ProfileHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := profileIDFromPath(r, p.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.profiles.GetCompany(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type companyProfileRequest struct {
	Name        *string `json:"name"`
	Avatar      *string `json:"avatar"`
	Description *string `json:"description"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	WebsiteURL  *string `json:"website_url"`
	LogoURL     *string `json:"logo_url"`
	Industry    *string `json:"industry"`
}

func (h *ProfileHandler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req companyProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	existing, err := h.profiles.GetCompany(r.Context(), p, p.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	applyString(&existing.Name, req.Name)
	applyString(&existing.Avatar, req.Avatar)
	applyString(&existing.Description, req.Description)
	applyString(&existing.PhoneNumber, req.PhoneNumber)
	applyString(&existing.Address, req.Address)
	applyString(&existing.WebsiteURL, req.WebsiteURL)
	applyString(&existing.LogoURL, req.LogoURL)
	applyString(&existing.Industry, req.Industry)
	result, err := h.profiles.UpdateCompany(r.Context(), p, *existing)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ProfileHandler) ListSchools(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.profiles.FindSchools(r.Context(), p, profileQuery(r))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func (h *ProfileHandler) GetSchool(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id, err := profileIDFromPath(r, p.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	result, err := h.profiles.GetSchool(r.Context(), p, id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

type schoolProfileRequest struct {
	Name   *string  `json:"name"`
	Avatar *string  `json:"avatar"`
	Skills []string `json:"skills"`
}

func (h *ProfileHandler) UpdateSchool(w http.ResponseWriter, r *http.Request) {
	p, err := principal(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req schoolProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	existing, err := h.profiles.GetSchool(r.Context(), p, p.ID)
	if err != nil {
		response.Error(w, err)
		return
	}
	applyString(&existing.Name, req.Name)
	applyString(&existing.Avatar, req.Avatar)
	if req.Skills != nil {
		existing.Skills = req.Skills
	}
	result, err := h.profiles.UpdateSchool(r.Context(), p, *existing)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

func applyString(target *string, value *string) {
	if value != nil {
		*target = *value
	}
}
