package app

import (
	"context"
	"sync"
	"time"

	"junqo/internal/common"
	"junqo/internal/domain/application"
	"junqo/internal/domain/conversation"
	"junqo/internal/domain/offer"
	"junqo/internal/domain/profile"
	"junqo/internal/domain/user"
)

type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[common.UUID]*user.User
	byEmail map[string]*user.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[common.UUID]*user.User),
		byEmail: make(map[string]*user.User),
	}
}

func (r *fakeUserRepo) Create(ctx context.Context, u user.User) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.NewError(common.CodeConflict, "email already registered", nil)
	}
	u.ID = common.NewUUID()
	u.CreatedAt = time.Now().UTC()
	u.UpdatedAt = u.CreatedAt
	stored := u
	r.byID[u.ID] = &stored
	r.byEmail[u.Email] = &stored
	return &u, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id common.UUID) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byID[id]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copy := *account
	return &copy, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account := r.byEmail[email]
	if account == nil {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	copy := *account
	return &copy, nil
}

type fakeOfferRepo struct {
	mu     sync.Mutex
	offers map[common.UUID]*offer.Offer
	seen   map[[2]common.UUID]bool
	views  map[common.UUID]int
}

func newFakeOfferRepo() *fakeOfferRepo {
	return &fakeOfferRepo{
		offers: make(map[common.UUID]*offer.Offer),
		seen:   make(map[[2]common.UUID]bool),
		views:  make(map[common.UUID]int),
	}
}

func (r *fakeOfferRepo) Create(ctx context.Context, o offer.Offer) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o.ID = common.NewUUID()
	o.CreatedAt = time.Now().UTC()
	o.UpdatedAt = o.CreatedAt
	stored := o
	r.offers[o.ID] = &stored
	return &o, nil
}

func (r *fakeOfferRepo) Update(ctx context.Context, o offer.Offer) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.offers[o.ID]
	if existing == nil || existing.DeletedAt != nil {
		return nil, common.NewError(common.CodeNotFound, "offer not found", nil)
	}
	o.UserID = existing.UserID
	o.ViewCount = existing.ViewCount
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = time.Now().UTC()
	stored := o
	r.offers[o.ID] = &stored
	return &o, nil
}

func (r *fakeOfferRepo) GetByID(ctx context.Context, id common.UUID) (*offer.Offer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.offers[id]
	if existing == nil || existing.DeletedAt != nil {
		return nil, common.NewError(common.CodeNotFound, "offer not found", nil)
	}
	copy := *existing
	return &copy, nil
}

func (r *fakeOfferRepo) FindByQuery(ctx context.Context, q offer.Query) (*offer.QueryResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := &offer.QueryResult{Rows: []offer.Offer{}}
	for _, o := range r.offers {
		if o.DeletedAt != nil {
			continue
		}
		if !q.UserID.IsZero() && o.UserID != q.UserID {
			continue
		}
		if q.Status != "" && o.Status != q.Status {
			continue
		}
		result.Rows = append(result.Rows, *o)
	}
	result.Count = len(result.Rows)
	return result, nil
}

func (r *fakeOfferRepo) SoftDelete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.offers[id]
	if existing == nil || existing.DeletedAt != nil {
		return common.NewError(common.CodeNotFound, "offer not found", nil)
	}
	now := time.Now().UTC()
	existing.DeletedAt = &now
	existing.Status = offer.StatusDeleted
	return nil
}

func (r *fakeOfferRepo) IncrementViewCount(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.offers[id]
	if existing == nil || existing.DeletedAt != nil {
		return common.NewError(common.CodeNotFound, "offer not found", nil)
	}
	existing.ViewCount++
	r.views[id]++
	return nil
}

func (r *fakeOfferRepo) MarkSeen(ctx context.Context, userID, offerID common.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]common.UUID{userID, offerID}
	if r.seen[key] {
		return false, nil
	}
	r.seen[key] = true
	return true, nil
}

func (r *fakeOfferRepo) ListAppliedByStudent(ctx context.Context, studentID common.UUID) ([]offer.Offer, error) {
	return nil, nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[common.UUID]*application.Application
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[common.UUID]*application.Application)}
}

func (r *fakeApplicationRepo) Create(ctx context.Context, app application.Application) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.DeletedAt == nil && existing.OfferID == app.OfferID && existing.StudentID == app.StudentID {
			return nil, common.NewError(common.CodeConflict, "application already exists for this offer", nil)
		}
	}
	app.ID = common.NewUUID()
	app.CreatedAt = time.Now().UTC()
	app.UpdatedAt = app.CreatedAt
	stored := app
	r.apps[app.ID] = &stored
	return &app, nil
}

func (r *fakeApplicationRepo) GetByID(ctx context.Context, id common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.apps[id]
	if existing == nil || existing.DeletedAt != nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	copy := *existing
	return &copy, nil
}

func (r *fakeApplicationRepo) FindByQuery(ctx context.Context, q application.Query) (*application.QueryResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := &application.QueryResult{Rows: []application.Application{}}
	for _, app := range r.apps {
		if app.DeletedAt != nil {
			continue
		}
		if !q.StudentID.IsZero() && app.StudentID != q.StudentID {
			continue
		}
		if !q.CompanyID.IsZero() && app.CompanyID != q.CompanyID {
			continue
		}
		if !q.OfferID.IsZero() && app.OfferID != q.OfferID {
			continue
		}
		if q.Status != "" && app.Status != q.Status {
			continue
		}
		result.Rows = append(result.Rows, *app)
	}
	result.Count = len(result.Rows)
	return result, nil
}

func (r *fakeApplicationRepo) FindByOfferAndStudent(ctx context.Context, offerID, studentID common.UUID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.DeletedAt == nil && app.OfferID == offerID && app.StudentID == studentID {
			copy := *app
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "application not found", nil)
}

func (r *fakeApplicationRepo) UpdateStatus(ctx context.Context, id common.UUID, status application.Status) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.apps[id]
	if existing == nil || existing.DeletedAt != nil {
		return nil, common.NewError(common.CodeNotFound, "application not found", nil)
	}
	existing.Status = status
	existing.UpdatedAt = time.Now().UTC()
	copy := *existing
	return &copy, nil
}

func (r *fakeApplicationRepo) SoftDelete(ctx context.Context, id common.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.apps[id]
	if existing == nil || existing.DeletedAt != nil {
		return common.NewError(common.CodeNotFound, "application not found", nil)
	}
	now := time.Now().UTC()
	existing.DeletedAt = &now
	return nil
}

func (r *fakeApplicationRepo) CountByOffer(ctx context.Context, offerID common.UUID) (*application.StatusCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := &application.StatusCounts{}
	for _, app := range r.apps {
		if app.DeletedAt != nil || app.OfferID != offerID {
			continue
		}
		counts.Total++
		switch app.Status {
		case application.StatusPending:
			counts.Pending++
		case application.StatusAccepted:
			counts.Accepted++
		case application.StatusDenied:
			counts.Denied++
		}
	}
	return counts, nil
}

type fakeStudentProfileRepo struct {
	mu       sync.Mutex
	profiles map[common.UUID]*profile.StudentProfile
}

func newFakeStudentProfileRepo() *fakeStudentProfileRepo {
	return &fakeStudentProfileRepo{profiles: make(map[common.UUID]*profile.StudentProfile)}
}

func (r *fakeStudentProfileRepo) Create(ctx context.Context, p profile.StudentProfile) (*profile.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	stored := p
	r.profiles[p.UserID] = &stored
	return &p, nil
}

func (r *fakeStudentProfileRepo) GetByUserID(ctx context.Context, userID common.UUID) (*profile.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.profiles[userID]
	if existing == nil {
		return nil, common.NewError(common.CodeNotFound, "student profile not found", nil)
	}
	copy := *existing
	return &copy, nil
}

func (r *fakeStudentProfileRepo) Update(ctx context.Context, p profile.StudentProfile) (*profile.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profiles[p.UserID] == nil {
		return nil, common.NewError(common.CodeNotFound, "student profile not found", nil)
	}
	p.UpdatedAt = time.Now().UTC()
	stored := p
	r.profiles[p.UserID] = &stored
	return &p, nil
}

func (r *fakeStudentProfileRepo) FindByQuery(ctx context.Context, q profile.Query) (*profile.StudentQueryResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := &profile.StudentQueryResult{Rows: []profile.StudentProfile{}}
	for _, p := range r.profiles {
		result.Rows = append(result.Rows, *p)
	}
	result.Count = len(result.Rows)
	return result, nil
}

type fakeCompanyProfileRepo struct {
	mu       sync.Mutex
	profiles map[common.UUID]*profile.CompanyProfile
}

func newFakeCompanyProfileRepo() *fakeCompanyProfileRepo {
	return &fakeCompanyProfileRepo{profiles: make(map[common.UUID]*profile.CompanyProfile)}
}

func (r *fakeCompanyProfileRepo) Create(ctx context.Context, p profile.CompanyProfile) (*profile.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	stored := p
	r.profiles[p.UserID] = &stored
	return &p, nil
}

func (r *fakeCompanyProfileRepo) GetByUserID(ctx context.Context, userID common.UUID) (*profile.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.profiles[userID]
	if existing == nil {
		return nil, common.NewError(common.CodeNotFound, "company profile not found", nil)
	}
	copy := *existing
	return &copy, nil
}

func (r *fakeCompanyProfileRepo) Update(ctx context.Context, p profile.CompanyProfile) (*profile.CompanyProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profiles[p.UserID] == nil {
		return nil, common.NewError(common.CodeNotFound, "company profile not found", nil)
	}
	p.UpdatedAt = time.Now().UTC()
	stored := p
	r.profiles[p.UserID] = &stored
	return &p, nil
}

func (r *fakeCompanyProfileRepo) FindByQuery(ctx context.Context, q profile.Query) (*profile.CompanyQueryResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := &profile.CompanyQueryResult{Rows: []profile.CompanyProfile{}}
	for _, p := range r.profiles {
		result.Rows = append(result.Rows, *p)
	}
	result.Count = len(result.Rows)
	return result, nil
}

type fakeSchoolProfileRepo struct {
	mu       sync.Mutex
	profiles map[common.UUID]*profile.SchoolProfile
}

func newFakeSchoolProfileRepo() *fakeSchoolProfileRepo {
	return &fakeSchoolProfileRepo{profiles: make(map[common.UUID]*profile.SchoolProfile)}
}

func (r *fakeSchoolProfileRepo) Create(ctx context.Context, p profile.SchoolProfile) (*profile.SchoolProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.CreatedAt = time.Now().UTC()
	p.UpdatedAt = p.CreatedAt
	stored := p
	r.profiles[p.UserID] = &stored
	return &p, nil
}

func (r *fakeSchoolProfileRepo) GetByUserID(ctx context.Context, userID common.UUID) (*profile.SchoolProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.profiles[userID]
	if existing == nil {
		return nil, common.NewError(common.CodeNotFound, "school profile not found", nil)
	}
	copy := *existing
	return &copy, nil
}

func (r *fakeSchoolProfileRepo) Update(ctx context.Context, p profile.SchoolProfile) (*profile.SchoolProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.profiles[p.UserID] == nil {
		return nil, common.NewError(common.CodeNotFound, "school profile not found", nil)
	}
	p.UpdatedAt = time.Now().UTC()
	stored := p
	r.profiles[p.UserID] = &stored
	return &p, nil
}

func (r *fakeSchoolProfileRepo) FindByQuery(ctx context.Context, q profile.Query) (*profile.SchoolQueryResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := &profile.SchoolQueryResult{Rows: []profile.SchoolProfile{}}
	for _, p := range r.profiles {
		result.Rows = append(result.Rows, *p)
	}
	result.Count = len(result.Rows)
	return result, nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[common.UUID]*conversation.Conversation
	messages      map[common.UUID][]conversation.Message
	failCreate    bool
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{
		conversations: make(map[common.UUID]*conversation.Conversation),
		messages:      make(map[common.UUID][]conversation.Message),
	}
}

func (r *fakeConversationRepo) Create(ctx context.Context, c conversation.Conversation) (*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return nil, common.NewError(common.CodeInternal, "failed to create conversation", nil)
	}
	for _, existing := range r.conversations {
		if !c.ApplicationID.IsZero() && existing.ApplicationID == c.ApplicationID {
			return nil, common.NewError(common.CodeConflict, "conversation already exists for this application", nil)
		}
	}
	c.ID = common.NewUUID()
	c.CreatedAt = time.Now().UTC()
	c.UpdatedAt = c.CreatedAt
	stored := c
	r.conversations[c.ID] = &stored
	return &c, nil
}

func (r *fakeConversationRepo) GetByID(ctx context.Context, id common.UUID) (*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing := r.conversations[id]
	if existing == nil {
		return nil, common.NewError(common.CodeNotFound, "conversation not found", nil)
	}
	copy := *existing
	return &copy, nil
}

func (r *fakeConversationRepo) GetByApplicationID(ctx context.Context, applicationID common.UUID) (*conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.conversations {
		if existing.ApplicationID == applicationID {
			copy := *existing
			return &copy, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "conversation not found", nil)
}

func (r *fakeConversationRepo) ListByParticipant(ctx context.Context, userID common.UUID) ([]conversation.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []conversation.Conversation
	for _, c := range r.conversations {
		if c.HasParticipant(userID) {
			items = append(items, *c)
		}
	}
	return items, nil
}

func (r *fakeConversationRepo) CreateMessage(ctx context.Context, m conversation.Message) (*conversation.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = common.NewUUID()
	m.CreatedAt = time.Now().UTC()
	r.messages[m.ConversationID] = append(r.messages[m.ConversationID], m)
	return &m, nil
}

func (r *fakeConversationRepo) ListMessages(ctx context.Context, conversationID common.UUID, limit, offset int) ([]conversation.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]conversation.Message(nil), r.messages[conversationID]...), nil
}
