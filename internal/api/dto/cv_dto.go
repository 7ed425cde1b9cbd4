package dto

import (
	"time"

	"github.com/resumekit/cv-service/internal/domain"
)

// CVRequest is the editable content of a CV. ID and OwnerID are accepted so
// clients can post back what they fetched; the handlers never trust them.
type CVRequest struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"ownerId"`
	PersonalInfo PersonalInfoDTO `json:"personalInfo"`
	Education    []EducationDTO  `json:"education" validate:"max=50,dive"`
	Skills       []SkillDTO      `json:"skills" validate:"max=50,dive"`
	Experience   []ExperienceDTO `json:"experience" validate:"max=50,dive"`
	Projects     []ProjectDTO    `json:"projects" validate:"max=50,dive"`
}

// ShareRequest publishes a snapshot. With FromSaved set the stored primary
// CV is copied and the sections are ignored.
type ShareRequest struct {
	CVRequest
	FromSaved bool `json:"fromSaved"`
}

type PersonalInfoDTO struct {
	FullName string `json:"fullName" validate:"required,max=200"`
	Email    string `json:"email" validate:"omitempty,email"`
	Phone    string `json:"phone" validate:"max=50"`
	LinkedIn string `json:"linkedin" validate:"max=300"`
	GitHub   string `json:"github" validate:"max=300"`
}

type EducationDTO struct {
	ID          string `json:"id,omitempty"`
	Institution string `json:"institution" validate:"required,max=200"`
	Degree      string `json:"degree" validate:"required,max=200"`
	Field       string `json:"field" validate:"max=200"`
	GPA         string `json:"gpa" validate:"max=20"`
	StartDate   string `json:"startDate" validate:"required,cvdate"`
	EndDate     string `json:"endDate,omitempty" validate:"omitempty,cvdate"`
}

type SkillDTO struct {
	ID       string   `json:"id,omitempty"`
	Category string   `json:"category" validate:"required,max=100"`
	Items    []string `json:"items" validate:"max=100,dive,max=100"`
}

type ExperienceDTO struct {
	ID               string   `json:"id,omitempty"`
	Title            string   `json:"title" validate:"required,max=200"`
	Company          string   `json:"company" validate:"required,max=200"`
	Location         string   `json:"location" validate:"max=200"`
	StartDate        string   `json:"startDate" validate:"required,cvdate"`
	EndDate          string   `json:"endDate,omitempty" validate:"omitempty,cvdate"`
	Responsibilities []string `json:"responsibilities" validate:"max=50,dive,max=1000"`
}

type ProjectDTO struct {
	ID          string   `json:"id,omitempty"`
	Title       string   `json:"title" validate:"required,max=200"`
	Link        string   `json:"link" validate:"max=500"`
	StartDate   string   `json:"startDate" validate:"required,cvdate"`
	EndDate     string   `json:"endDate,omitempty" validate:"omitempty,cvdate"`
	Description []string `json:"description" validate:"max=50,dive,max=1000"`
}

// CVResponse is the JSON view of a stored CV.
type CVResponse struct {
	ID           string          `json:"id"`
	OwnerID      string          `json:"ownerId"`
	Kind         string          `json:"kind"`
	PersonalInfo PersonalInfoDTO `json:"personalInfo"`
	Education    []EducationDTO  `json:"education"`
	Skills       []SkillDTO      `json:"skills"`
	Experience   []ExperienceDTO `json:"experience"`
	Projects     []ProjectDTO    `json:"projects"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ShareResponse identifies a freshly published snapshot.
type ShareResponse struct {
	ID string `json:"id"`
}

// ToDomain converts a validated request into CV content. Identifiers are
// dropped.
func (r *CVRequest) ToDomain() (*domain.CV, error) {
	cv := &domain.CV{
		PersonalInfo: domain.PersonalInfo{
			FullName: r.PersonalInfo.FullName,
			Email:    r.PersonalInfo.Email,
			Phone:    r.PersonalInfo.Phone,
			LinkedIn: r.PersonalInfo.LinkedIn,
			GitHub:   r.PersonalInfo.GitHub,
		},
		Education:  make([]domain.Education, 0, len(r.Education)),
		Skills:     make([]domain.Skill, 0, len(r.Skills)),
		Experience: make([]domain.Experience, 0, len(r.Experience)),
		Projects:   make([]domain.Project, 0, len(r.Projects)),
	}

	for _, e := range r.Education {
		start, end, err := parseRange(e.StartDate, e.EndDate)
		if err != nil {
			return nil, err
		}
		cv.Education = append(cv.Education, domain.Education{
			Institution: e.Institution,
			Degree:      e.Degree,
			Field:       e.Field,
			GPA:         e.GPA,
			StartDate:   start,
			EndDate:     end,
		})
	}
	for _, s := range r.Skills {
		cv.Skills = append(cv.Skills, domain.Skill{Category: s.Category, Items: nonNilStrings(s.Items)})
	}
	for _, e := range r.Experience {
		start, end, err := parseRange(e.StartDate, e.EndDate)
		if err != nil {
			return nil, err
		}
		cv.Experience = append(cv.Experience, domain.Experience{
			Title:            e.Title,
			Company:          e.Company,
			Location:         e.Location,
			StartDate:        start,
			EndDate:          end,
			Responsibilities: nonNilStrings(e.Responsibilities),
		})
	}
	for _, p := range r.Projects {
		start, end, err := parseRange(p.StartDate, p.EndDate)
		if err != nil {
			return nil, err
		}
		cv.Projects = append(cv.Projects, domain.Project{
			Title:       p.Title,
			Link:        p.Link,
			StartDate:   start,
			EndDate:     end,
			Description: nonNilStrings(p.Description),
		})
	}
	return cv, nil
}

// NewCVResponse renders a stored CV.
func NewCVResponse(cv *domain.CV) CVResponse {
	resp := CVResponse{
		ID:      cv.ID,
		OwnerID: cv.OwnerID,
		Kind:    string(cv.Kind),
		PersonalInfo: PersonalInfoDTO{
			FullName: cv.PersonalInfo.FullName,
			Email:    cv.PersonalInfo.Email,
			Phone:    cv.PersonalInfo.Phone,
			LinkedIn: cv.PersonalInfo.LinkedIn,
			GitHub:   cv.PersonalInfo.GitHub,
		},
		Education:  make([]EducationDTO, 0, len(cv.Education)),
		Skills:     make([]SkillDTO, 0, len(cv.Skills)),
		Experience: make([]ExperienceDTO, 0, len(cv.Experience)),
		Projects:   make([]ProjectDTO, 0, len(cv.Projects)),
		CreatedAt:  cv.CreatedAt,
		UpdatedAt:  cv.UpdatedAt,
	}
	for _, e := range cv.Education {
		resp.Education = append(resp.Education, EducationDTO{
			ID:          e.ID,
			Institution: e.Institution,
			Degree:      e.Degree,
			Field:       e.Field,
			GPA:         e.GPA,
			StartDate:   FormatDate(e.StartDate),
			EndDate:     formatOptional(e.EndDate),
		})
	}
	for _, s := range cv.Skills {
		resp.Skills = append(resp.Skills, SkillDTO{ID: s.ID, Category: s.Category, Items: nonNilStrings(s.Items)})
	}
	for _, e := range cv.Experience {
		resp.Experience = append(resp.Experience, ExperienceDTO{
			ID:               e.ID,
			Title:            e.Title,
			Company:          e.Company,
			Location:         e.Location,
			StartDate:        FormatDate(e.StartDate),
			EndDate:          formatOptional(e.EndDate),
			Responsibilities: nonNilStrings(e.Responsibilities),
		})
	}
	for _, p := range cv.Projects {
		resp.Projects = append(resp.Projects, ProjectDTO{
			ID:          p.ID,
			Title:       p.Title,
			Link:        p.Link,
			StartDate:   FormatDate(p.StartDate),
			EndDate:     formatOptional(p.EndDate),
			Description: nonNilStrings(p.Description),
		})
	}
	return resp
}

func parseRange(start, end string) (time.Time, *time.Time, error) {
	s, err := ParseDate(start)
	if err != nil {
		return time.Time{}, nil, err
	}
	if end == "" {
		return s, nil, nil
	}
	e, err := ParseDate(end)
	if err != nil {
		return time.Time{}, nil, err
	}
	return s, &e, nil
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDate(*t)
}

// nonNilStrings never returns nil so empty lists encode as [].
func nonNilStrings(items []string) []string {
	return append(make([]string, 0, len(items)), items...)
}
