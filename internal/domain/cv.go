package domain

import "time"

// CVKind separates the single editable CV of an account from the read-only
// copies it publishes.
type CVKind string

const (
	CVKindPrimary  CVKind = "primary"
	CVKindSnapshot CVKind = "snapshot"
)

// CV is the aggregate root of a resume. OwnerID is assigned at creation and
// never changes.
type CV struct {
	ID           string       `json:"id"`
	OwnerID      string       `json:"owner_id"`
	Kind         CVKind       `json:"kind"`
	PersonalInfo PersonalInfo `json:"personal_info"`
	Education    []Education  `json:"education"`
	Skills       []Skill      `json:"skills"`
	Experience   []Experience `json:"experience"`
	Projects     []Project    `json:"projects"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// PersonalInfo is stored as a single JSON document.
type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
}

type Education struct {
	ID          string     `json:"id"`
	Institution string     `json:"institution"`
	Degree      string     `json:"degree"`
	Field       string     `json:"field"`
	GPA         string     `json:"gpa"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

type Skill struct {
	ID       string   `json:"id"`
	Category string   `json:"category"`
	Items    []string `json:"items"`
}

type Experience struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Company          string     `json:"company"`
	Location         string     `json:"location"`
	StartDate        time.Time  `json:"start_date"`
	EndDate          *time.Time `json:"end_date,omitempty"`
	Responsibilities []string   `json:"responsibilities"`
}

type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Link        string     `json:"link"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Description []string   `json:"description"`
}

// Clone returns a deep copy of cv.
func (cv *CV) Clone() *CV {
	out := *cv
	out.Education = append([]Education(nil), cv.Education...)
	out.Skills = make([]Skill, 0, len(cv.Skills))
	for _, s := range cv.Skills {
		s.Items = append([]string(nil), s.Items...)
		out.Skills = append(out.Skills, s)
	}
	out.Experience = make([]Experience, 0, len(cv.Experience))
	for _, e := range cv.Experience {
		e.Responsibilities = append([]string(nil), e.Responsibilities...)
		out.Experience = append(out.Experience, e)
	}
	out.Projects = make([]Project, 0, len(cv.Projects))
	for _, p := range cv.Projects {
		p.Description = append([]string(nil), p.Description...)
		out.Projects = append(out.Projects, p)
	}
	return &out
}

// CopyContent returns a CV carrying the same sections as cv with all
// identifiers, ownership and timestamps cleared.
func (cv *CV) CopyContent() *CV {
	out := cv.Clone()
	out.ID, out.OwnerID, out.Kind = "", "", ""
	out.CreatedAt, out.UpdatedAt = time.Time{}, time.Time{}
	for i := range out.Education {
		out.Education[i].ID = ""
	}
	for i := range out.Skills {
		out.Skills[i].ID = ""
	}
	for i := range out.Experience {
		out.Experience[i].ID = ""
	}
	for i := range out.Projects {
		out.Projects[i].ID = ""
	}
	return out
}
