// Package graphql exposes a read/apply surface mirroring the REST API for
// clients that prefer a single endpoint.
package graphql

import (
	"github.com/graphql-go/graphql"

	"junqo/internal/ability"
	"junqo/internal/app"
	"junqo/internal/common"
	"junqo/internal/domain/application"
	"junqo/internal/domain/offer"
	"junqo/internal/domain/profile"
)

type Services struct {
	Offers       *app.OfferService
	Applications *app.ApplicationService
	Profiles     *app.ProfileService
}

var offerType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Offer",
	Fields: graphql.Fields{
		"id":               &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"userId":           &graphql.Field{Type: graphql.ID, Resolve: fieldOf(func(o offer.Offer) any { return o.UserID })},
		"title":            &graphql.Field{Type: graphql.String},
		"description":      &graphql.Field{Type: graphql.String},
		"status":           &graphql.Field{Type: graphql.String},
		"offerType":        &graphql.Field{Type: graphql.String, Resolve: fieldOf(func(o offer.Offer) any { return o.OfferType })},
		"workLocationType": &graphql.Field{Type: graphql.String, Resolve: fieldOf(func(o offer.Offer) any { return o.WorkLocationType })},
		"salary":           &graphql.Field{Type: graphql.Int},
		"duration":         &graphql.Field{Type: graphql.Int},
		"skills":           &graphql.Field{Type: graphql.NewList(graphql.String)},
		"benefits":         &graphql.Field{Type: graphql.NewList(graphql.String)},
		"viewCount":        &graphql.Field{Type: graphql.Int, Resolve: fieldOf(func(o offer.Offer) any { return o.ViewCount })},
	},
})

var offerPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OfferPage",
	Fields: graphql.Fields{
		"rows":  &graphql.Field{Type: graphql.NewList(offerType)},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

var applicationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Application",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"studentId": &graphql.Field{Type: graphql.ID, Resolve: fieldOf(func(a application.Application) any { return a.StudentID })},
		"companyId": &graphql.Field{Type: graphql.ID, Resolve: fieldOf(func(a application.Application) any { return a.CompanyID })},
		"offerId":   &graphql.Field{Type: graphql.ID, Resolve: fieldOf(func(a application.Application) any { return a.OfferID })},
		"status":    &graphql.Field{Type: graphql.String},
	},
})

var applicationPageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ApplicationPage",
	Fields: graphql.Fields{
		"rows":  &graphql.Field{Type: graphql.NewList(applicationType)},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

var experienceType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Experience",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"title":       &graphql.Field{Type: graphql.String},
		"company":     &graphql.Field{Type: graphql.String},
		"startDate":   &graphql.Field{Type: graphql.String, Resolve: fieldOf(func(e profile.Experience) any { return e.StartDate })},
		"endDate":     &graphql.Field{Type: graphql.String, Resolve: fieldOf(func(e profile.Experience) any { return e.EndDate })},
		"description": &graphql.Field{Type: graphql.String},
		"skills":      &graphql.Field{Type: graphql.NewList(graphql.String)},
	},
})

var studentProfileType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StudentProfile",
	Fields: graphql.Fields{
		"userId":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID), Resolve: fieldOf(func(s profile.StudentProfile) any { return s.UserID })},
		"name":           &graphql.Field{Type: graphql.String},
		"avatar":         &graphql.Field{Type: graphql.String},
		"bio":            &graphql.Field{Type: graphql.String},
		"phoneNumber":    &graphql.Field{Type: graphql.String, Resolve: fieldOf(func(s profile.StudentProfile) any { return s.PhoneNumber })},
		"linkedinUrl":    &graphql.Field{Type: graphql.String, Resolve: fieldOf(func(s profile.StudentProfile) any { return s.LinkedinURL })},
		"educationLevel": &graphql.Field{Type: graphql.String, Resolve: fieldOf(func(s profile.StudentProfile) any { return s.EducationLevel })},
		"skills":         &graphql.Field{Type: graphql.NewList(graphql.String)},
		"linkedSchoolId": &graphql.Field{Type: graphql.ID, Resolve: fieldOf(func(s profile.StudentProfile) any { return s.LinkedSchoolID })},
		"experiences":    &graphql.Field{Type: graphql.NewList(experienceType)},
	},
})

var studentProfilePageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "StudentProfilePage",
	Fields: graphql.Fields{
		"rows":  &graphql.Field{Type: graphql.NewList(studentProfileType)},
		"count": &graphql.Field{Type: graphql.Int},
	},
})

// fieldOf adapts a typed accessor to a resolver, handling both value and
// pointer sources.
func fieldOf[T any](get func(T) any) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (any, error) {
		switch source := p.Source.(type) {
		case T:
			return get(source), nil
		case *T:
			return get(*source), nil
		default:
			return nil, nil
		}
	}
}

func NewSchema(services Services) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"offers": &graphql.Field{
				Type: offerPageType,
				Args: graphql.FieldConfigArgument{
					"title":  &graphql.ArgumentConfig{Type: graphql.String},
					"status": &graphql.ArgumentConfig{Type: graphql.String},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					q := offer.Query{}
					if title, ok := p.Args["title"].(string); ok {
						q.Title = title
					}
					if status, ok := p.Args["status"].(string); ok {
						q.Status = offer.Status(status)
					}
					if offset, ok := p.Args["offset"].(int); ok {
						q.Offset = offset
					}
					if limit, ok := p.Args["limit"].(int); ok {
						q.Limit = limit
					}
					return services.Offers.FindByQuery(p.Context, caller, q)
				},
			},
			"offer": &graphql.Field{
				Type: offerType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := argUUID(p, "id")
					if err != nil {
						return nil, err
					}
					return services.Offers.FindOneByID(p.Context, caller, id)
				},
			},
			"applications": &graphql.Field{
				Type: applicationPageType,
				Args: graphql.FieldConfigArgument{
					"studentId": &graphql.ArgumentConfig{Type: graphql.ID},
					"offerId":   &graphql.ArgumentConfig{Type: graphql.ID},
					"status":    &graphql.ArgumentConfig{Type: graphql.String},
					"offset":    &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":     &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					q := application.Query{}
					if _, ok := p.Args["studentId"]; ok {
						q.StudentID, err = argUUID(p, "studentId")
						if err != nil {
							return nil, err
						}
					}
					if _, ok := p.Args["offerId"]; ok {
						q.OfferID, err = argUUID(p, "offerId")
						if err != nil {
							return nil, err
						}
					}
					if status, ok := p.Args["status"].(string); ok {
						q.Status = application.NormalizeStatus(application.Status(status))
					}
					if offset, ok := p.Args["offset"].(int); ok {
						q.Offset = offset
					}
					if limit, ok := p.Args["limit"].(int); ok {
						q.Limit = limit
					}
					return services.Applications.FindByQuery(p.Context, caller, q)
				},
			},
			"application": &graphql.Field{
				Type: applicationType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := argUUID(p, "id")
					if err != nil {
						return nil, err
					}
					return services.Applications.FindOneByID(p.Context, caller, id)
				},
			},
			"studentProfiles": &graphql.Field{
				Type: studentProfilePageType,
				Args: graphql.FieldConfigArgument{
					"name":   &graphql.ArgumentConfig{Type: graphql.String},
					"skills": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
					"offset": &graphql.ArgumentConfig{Type: graphql.Int},
					"limit":  &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					q := profile.Query{}
					if name, ok := p.Args["name"].(string); ok {
						q.Name = name
					}
					if skills, ok := p.Args["skills"].([]any); ok {
						for _, s := range skills {
							if skill, ok := s.(string); ok {
								q.Skills = append(q.Skills, skill)
							}
						}
					}
					if offset, ok := p.Args["offset"].(int); ok {
						q.Offset = offset
					}
					if limit, ok := p.Args["limit"].(int); ok {
						q.Limit = limit
					}
					return services.Profiles.FindStudents(p.Context, caller, q)
				},
			},
			"studentProfile": &graphql.Field{
				Type: studentProfileType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := argUUID(p, "id")
					if err != nil {
						return nil, err
					}
					return services.Profiles.GetStudent(p.Context, caller, id)
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"applyToOffer": &graphql.Field{
				Type: applicationType,
				Args: graphql.FieldConfigArgument{
					"offerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					offerID, err := argUUID(p, "offerId")
					if err != nil {
						return nil, err
					}
					return services.Applications.Create(p.Context, caller, offerID)
				},
			},
			"updateApplicationStatus": &graphql.Field{
				Type: applicationType,
				Args: graphql.FieldConfigArgument{
					"id":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := argUUID(p, "id")
					if err != nil {
						return nil, err
					}
					status, _ := p.Args["status"].(string)
					return services.Applications.Update(p.Context, caller, id, application.Status(status))
				},
			},
			"markOfferSeen": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"offerId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					offerID, err := argUUID(p, "offerId")
					if err != nil {
						return nil, err
					}
					return services.Offers.MarkSeen(p.Context, caller, offerID)
				},
			},
			"createOffer": &graphql.Field{
				Type: offerType,
				Args: offerArgs(true),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					var o offer.Offer
					applyOfferArgs(&o, p)
					return services.Offers.Create(p.Context, caller, o)
				},
			},
			"updateOffer": &graphql.Field{
				Type: offerType,
				Args: offerArgs(false),
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := argUUID(p, "id")
					if err != nil {
						return nil, err
					}
					existing, err := services.Offers.FindOneByID(p.Context, caller, id)
					if err != nil {
						return nil, err
					}
					updated := *existing
					applyOfferArgs(&updated, p)
					return services.Offers.Update(p.Context, caller, updated)
				},
			},
			"deleteOffer": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					id, err := argUUID(p, "id")
					if err != nil {
						return nil, err
					}
					if err := services.Offers.Delete(p.Context, caller, id); err != nil {
						return nil, err
					}
					return true, nil
				},
			},
			"updateStudentProfile": &graphql.Field{
				Type: studentProfileType,
				Args: graphql.FieldConfigArgument{
					"name":           &graphql.ArgumentConfig{Type: graphql.String},
					"avatar":         &graphql.ArgumentConfig{Type: graphql.String},
					"bio":            &graphql.ArgumentConfig{Type: graphql.String},
					"phoneNumber":    &graphql.ArgumentConfig{Type: graphql.String},
					"linkedinUrl":    &graphql.ArgumentConfig{Type: graphql.String},
					"educationLevel": &graphql.ArgumentConfig{Type: graphql.String},
					"skills":         &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (any, error) {
					caller, err := callerFrom(p)
					if err != nil {
						return nil, err
					}
					existing, err := services.Profiles.GetStudent(p.Context, caller, caller.ID)
					if err != nil {
						return nil, err
					}
					updated := *existing
					applyArgString(&updated.Name, p, "name")
					applyArgString(&updated.Avatar, p, "avatar")
					applyArgString(&updated.Bio, p, "bio")
					applyArgString(&updated.PhoneNumber, p, "phoneNumber")
					applyArgString(&updated.LinkedinURL, p, "linkedinUrl")
					applyArgString(&updated.EducationLevel, p, "educationLevel")
					if skills, ok := argStrings(p, "skills"); ok {
						updated.Skills = skills
					}
					return services.Profiles.UpdateStudent(p.Context, caller, updated)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

// offerArgs builds the shared argument set for offer mutations. Create omits
// the id; everything else stays optional and runs through service validation.
func offerArgs(create bool) graphql.FieldConfigArgument {
	args := graphql.FieldConfigArgument{
		"title":            &graphql.ArgumentConfig{Type: graphql.String},
		"description":      &graphql.ArgumentConfig{Type: graphql.String},
		"status":           &graphql.ArgumentConfig{Type: graphql.String},
		"offerType":        &graphql.ArgumentConfig{Type: graphql.String},
		"workLocationType": &graphql.ArgumentConfig{Type: graphql.String},
		"salary":           &graphql.ArgumentConfig{Type: graphql.Int},
		"duration":         &graphql.ArgumentConfig{Type: graphql.Int},
		"educationLevel":   &graphql.ArgumentConfig{Type: graphql.String},
		"skills":           &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
		"benefits":         &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
	}
	if !create {
		args["id"] = &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
	}
	return args
}

func applyOfferArgs(o *offer.Offer, p graphql.ResolveParams) {
	applyArgString(&o.Title, p, "title")
	applyArgString(&o.Description, p, "description")
	applyArgString(&o.EducationLevel, p, "educationLevel")
	if status, ok := p.Args["status"].(string); ok {
		o.Status = offer.Status(status)
	}
	if offerType, ok := p.Args["offerType"].(string); ok {
		o.OfferType = offer.Type(offerType)
	}
	if workLocation, ok := p.Args["workLocationType"].(string); ok {
		o.WorkLocationType = offer.WorkContext(workLocation)
	}
	if salary, ok := p.Args["salary"].(int); ok {
		o.Salary = salary
	}
	if duration, ok := p.Args["duration"].(int); ok {
		o.Duration = duration
	}
	if skills, ok := argStrings(p, "skills"); ok {
		o.Skills = skills
	}
	if benefits, ok := argStrings(p, "benefits"); ok {
		o.Benefits = benefits
	}
}

func applyArgString(target *string, p graphql.ResolveParams, name string) {
	if value, ok := p.Args[name].(string); ok {
		*target = value
	}
}

func argStrings(p graphql.ResolveParams, name string) ([]string, bool) {
	raw, ok := p.Args[name].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if value, ok := item.(string); ok {
			out = append(out, value)
		}
	}
	return out, true
}

func callerFrom(p graphql.ResolveParams) (ability.Principal, error) {
	caller, ok := p.Context.Value(principalContextKey).(ability.Principal)
	if !ok {
		return ability.Principal{}, common.NewError(common.CodeUnauthorized, "not authenticated", nil)
	}
	return caller, nil
}

func argUUID(p graphql.ResolveParams, name string) (common.UUID, error) {
	raw, _ := p.Args[name].(string)
	id, err := common.ParseUUID(raw)
	if err != nil {
		return "", common.NewValidationError("invalid "+name, map[string]string{name: "invalid uuid"})
	}
	return id, nil
}
