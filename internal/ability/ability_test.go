package ability

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"junqo/internal/common"
	"junqo/internal/domain/offer"
	"junqo/internal/domain/user"
)

func TestApplicationOwnershipGatesMutations(t *testing.T) {
	owner := common.NewUUID()
	other := common.NewUUID()
	resource := ApplicationResource{StudentID: owner, CompanyID: common.NewUUID()}

	for _, userType := range []user.Type{user.TypeStudent, user.TypeCompany, user.TypeSchool} {
		p := Principal{ID: other, Type: userType}
		assert.False(t, Can(p, ActionUpdate, resource), "non-owner %s must not update", userType)
		assert.False(t, Can(p, ActionDelete, resource), "non-owner %s must not delete", userType)
	}

	admin := Principal{ID: other, Type: user.TypeAdmin}
	assert.True(t, Can(admin, ActionUpdate, resource))
	assert.True(t, Can(admin, ActionDelete, resource))
}

func TestApplicationReadRequiresOwnershipOrAdmin(t *testing.T) {
	student := common.NewUUID()
	company := common.NewUUID()
	school := common.NewUUID()
	resource := ApplicationResource{StudentID: student, CompanyID: company, StudentLinkedSchoolID: school}

	assert.True(t, Can(Principal{ID: student, Type: user.TypeStudent}, ActionRead, resource))
	assert.True(t, Can(Principal{ID: company, Type: user.TypeCompany}, ActionRead, resource))
	assert.True(t, Can(Principal{ID: school, Type: user.TypeSchool}, ActionRead, resource))
	assert.True(t, Can(Principal{ID: common.NewUUID(), Type: user.TypeAdmin}, ActionRead, resource))

	assert.False(t, Can(Principal{ID: common.NewUUID(), Type: user.TypeStudent}, ActionRead, resource))
	assert.False(t, Can(Principal{ID: common.NewUUID(), Type: user.TypeCompany}, ActionRead, resource))
	assert.False(t, Can(Principal{ID: common.NewUUID(), Type: user.TypeSchool}, ActionRead, resource))
}

func TestSchoolReadNeedsLinkedSchool(t *testing.T) {
	school := Principal{ID: common.NewUUID(), Type: user.TypeSchool}
	unlinked := ApplicationResource{StudentID: common.NewUUID()}
	assert.False(t, Can(school, ActionRead, unlinked), "empty linked school id must never match")
}

func TestApplicationCreateRejectsForeignOwner(t *testing.T) {
	student := Principal{ID: common.NewUUID(), Type: user.TypeStudent}
	assert.True(t, Can(student, ActionCreate, ApplicationResource{StudentID: student.ID}))
	assert.True(t, Can(student, ActionCreate, ApplicationResource{}), "call site fills the owner in")
	assert.False(t, Can(student, ActionCreate, ApplicationResource{StudentID: common.NewUUID()}),
		"a create carrying another student's id must be denied")

	company := Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	assert.True(t, Can(company, ActionCreate, ApplicationResource{CompanyID: company.ID}))
	assert.False(t, Can(company, ActionCreate, ApplicationResource{CompanyID: common.NewUUID()}))
	assert.False(t, Can(Principal{ID: common.NewUUID(), Type: user.TypeSchool}, ActionCreate, ApplicationResource{}))
}

func TestOfferRules(t *testing.T) {
	ownerID := common.NewUUID()
	owner := Principal{ID: ownerID, Type: user.TypeCompany}
	student := Principal{ID: common.NewUUID(), Type: user.TypeStudent}

	active := OfferResource{UserID: ownerID, Status: offer.StatusActive}
	inactive := OfferResource{UserID: ownerID, Status: offer.StatusInactive}

	assert.True(t, Can(student, ActionRead, active), "active offers are publicly readable")
	assert.False(t, Can(student, ActionRead, inactive))
	assert.True(t, Can(owner, ActionRead, inactive), "owner reads own offer regardless of status")

	assert.True(t, Can(owner, ActionUpdate, active))
	assert.False(t, Can(student, ActionUpdate, active))
	assert.False(t, Can(student, ActionCreate, OfferResource{}))
	assert.True(t, Can(owner, ActionCreate, OfferResource{UserID: ownerID}))
}

func TestProfileRules(t *testing.T) {
	ownerID := common.NewUUID()
	owner := Principal{ID: ownerID, Type: user.TypeStudent}
	stranger := Principal{ID: common.NewUUID(), Type: user.TypeCompany}
	resource := ProfileResource{UserID: ownerID}

	assert.True(t, Can(stranger, ActionRead, resource))
	assert.False(t, Can(stranger, ActionUpdate, resource))
	assert.False(t, Can(stranger, ActionDelete, resource))
	assert.True(t, Can(owner, ActionUpdate, resource))
}

func TestConversationParticipantsOnly(t *testing.T) {
	a := common.NewUUID()
	b := common.NewUUID()
	resource := ConversationResource{ParticipantIDs: []common.UUID{a, b}}

	assert.True(t, Can(Principal{ID: a, Type: user.TypeStudent}, ActionRead, resource))
	assert.False(t, Can(Principal{ID: common.NewUUID(), Type: user.TypeCompany}, ActionRead, resource))
}

func TestUnknownResourceDenied(t *testing.T) {
	assert.False(t, Can(Principal{ID: common.NewUUID(), Type: user.TypeStudent}, ActionRead, struct{}{}))
}
