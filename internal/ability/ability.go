// Package ability decides whether a principal may perform an action on a
// resource shape. Rules are static predicates per (role, action, resource
// type); shapes carry only the ownership fields the decision needs.
package ability

import (
	"junqo/internal/common"
	"junqo/internal/domain/application"
	"junqo/internal/domain/offer"
	"junqo/internal/domain/user"
)

type Action string

const (
	ActionCreate Action = "CREATE"
	ActionRead   Action = "READ"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// Principal is the authenticated caller.
type Principal struct {
	ID   common.UUID
	Type user.Type
}

type ApplicationResource struct {
	StudentID             common.UUID
	CompanyID             common.UUID
	StudentLinkedSchoolID common.UUID
	Status                application.Status
}

type OfferResource struct {
	UserID common.UUID
	Status offer.Status
}

type ProfileResource struct {
	UserID common.UUID
}

type ExperienceResource struct {
	StudentID common.UUID
}

type ConversationResource struct {
	ParticipantIDs []common.UUID
}

// Can evaluates the rule for the principal, action and resource shape.
// Admins bypass every check. Unknown resource shapes are denied.
func Can(p Principal, action Action, resource any) bool {
	if p.Type == user.TypeAdmin {
		return true
	}
	switch r := resource.(type) {
	case ApplicationResource:
		return canApplication(p, action, r)
	case OfferResource:
		return canOffer(p, action, r)
	case ProfileResource:
		return canProfile(p, action, r)
	case ExperienceResource:
		return canExperience(p, action, r)
	case ConversationResource:
		return canConversation(p, action, r)
	default:
		return false
	}
}

func canApplication(p Principal, action Action, r ApplicationResource) bool {
	switch action {
	case ActionCreate:
		// Students apply for themselves, companies pre-accept for their own
		// company id. An owner field left empty is filled in at the call
		// site; a mismatching one is always rejected here.
		switch p.Type {
		case user.TypeStudent:
			return r.StudentID.IsZero() || r.StudentID == p.ID
		case user.TypeCompany:
			return r.CompanyID.IsZero() || r.CompanyID == p.ID
		default:
			return false
		}
	case ActionRead:
		switch p.Type {
		case user.TypeStudent:
			return r.StudentID == p.ID
		case user.TypeCompany:
			return r.CompanyID == p.ID
		case user.TypeSchool:
			return !r.StudentLinkedSchoolID.IsZero() && r.StudentLinkedSchoolID == p.ID
		default:
			return false
		}
	case ActionUpdate:
		switch p.Type {
		case user.TypeStudent:
			return r.StudentID == p.ID
		case user.TypeCompany:
			return r.CompanyID == p.ID
		default:
			return false
		}
	case ActionDelete:
		return p.Type == user.TypeStudent && r.StudentID == p.ID
	default:
		return false
	}
}

func canOffer(p Principal, action Action, r OfferResource) bool {
	switch action {
	case ActionCreate:
		return p.Type == user.TypeCompany && (r.UserID.IsZero() || r.UserID == p.ID)
	case ActionRead:
		if r.UserID == p.ID {
			return true
		}
		return r.Status == offer.StatusActive
	case ActionUpdate, ActionDelete:
		return r.UserID == p.ID
	default:
		return false
	}
}

func canProfile(p Principal, action Action, r ProfileResource) bool {
	switch action {
	case ActionCreate, ActionUpdate, ActionDelete:
		return r.UserID == p.ID
	case ActionRead:
		// Profiles are a shared directory: any authenticated user may read.
		return true
	default:
		return false
	}
}

func canExperience(p Principal, action Action, r ExperienceResource) bool {
	switch action {
	case ActionRead:
		return true
	case ActionCreate, ActionUpdate, ActionDelete:
		return p.Type == user.TypeStudent && r.StudentID == p.ID
	default:
		return false
	}
}

func canConversation(p Principal, action Action, r ConversationResource) bool {
	switch action {
	case ActionCreate, ActionRead, ActionUpdate:
		for _, id := range r.ParticipantIDs {
			if id == p.ID {
				return true
			}
		}
		return false
	default:
		return false
	}
}
