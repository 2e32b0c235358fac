package models

// AuthUser is the single signed-in identity. It is created from a decoded
// provider credential and persisted under the "authUser" store key. At most
// one AuthUser is active at a time.
type AuthUser struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	Picture    string `json:"picture"`
	Credential string `json:"credential"`
	Provider   string `json:"provider"`
}

// FirstName returns the leading word of the display name for greeting chips.
func (u *AuthUser) FirstName() string {
	if u == nil || u.Name == "" {
		return "You"
	}
	for i, r := range u.Name {
		if r == ' ' {
			return u.Name[:i]
		}
	}
	return u.Name
}

// UserProfile holds the travel preferences that drive plan requests.
type UserProfile struct {
	Interests    []string `json:"interests"`
	DurationDays int      `json:"durationDays"`
	Budget       float64  `json:"budget"`
	Travelers    int      `json:"travelers"`
	StartCity    string   `json:"start_city"`
}

// Profile defaults used whenever a stored field is missing or malformed.
const (
	DefaultDurationDays = 5
	DefaultBudget       = 30000
	DefaultTravelers    = 1
	DefaultStartCity    = "Delhi"
)

// DefaultProfile returns a profile populated with the documented defaults.
func DefaultProfile() UserProfile {
	return UserProfile{
		Interests:    []string{},
		DurationDays: DefaultDurationDays,
		Budget:       DefaultBudget,
		Travelers:    DefaultTravelers,
		StartCity:    DefaultStartCity,
	}
}

// DayEntry is one normalized itinerary day.
type DayEntry struct {
	Day   int     `json:"day"`
	Place string  `json:"place"`
	Cost  float64 `json:"cost"`
}

// Plan is one candidate itinerary: ordered days plus start/end places.
// Total is the sum of the kept per-day costs. ReportedTotal carries the
// total_cost figure the planning API returned for the candidate, which may
// disagree with Total; display code uses Total, ReportedTotal is kept for
// callers that want the upstream figure.
type Plan struct {
	Days          []DayEntry `json:"days"`
	Start         string     `json:"start"`
	End           string     `json:"end"`
	Total         float64    `json:"total"`
	ReportedTotal float64    `json:"reported_total"`
}

// PlanSet is the ordered candidate list for one planning request together
// with the currently selected index.
type PlanSet struct {
	Plans    []Plan `json:"plans"`
	Selected int    `json:"selected"`
}

// Current returns the selected plan, or false when the set is empty.
func (ps *PlanSet) Current() (Plan, bool) {
	if ps == nil || len(ps.Plans) == 0 {
		return Plan{}, false
	}
	idx := ps.Selected
	if idx < 0 || idx >= len(ps.Plans) {
		idx = 0
	}
	return ps.Plans[idx], true
}

// Recommendation is a legacy item from GET /recommendations.
type Recommendation struct {
	ID    string  `json:"id"`
	Day   int     `json:"day"`
	Place string  `json:"place"`
	Cost  float64 `json:"cost"`
}

// Trip is a legacy item from GET /trips.
type Trip struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Description string `json:"description"`
	Image       string `json:"image"`
	MapURL      string `json:"mapUrl"`
}

// NavItem is a single navigation entry.
type NavItem struct {
	Name string
	URL  string
}

// Navigation holds the navbar entries for a page render.
type Navigation struct {
	Items []NavItem
}
