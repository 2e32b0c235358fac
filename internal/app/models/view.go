package models

// Page carries the fields every rendered view needs.
type Page struct {
	Title     string
	ActiveNav string
	Nav       Navigation
	User      *AuthUser
}

// AuthPage renders the login and signup views with the provider button.
type AuthPage struct {
	Page
	Mode             string
	ProviderReady    bool
	ProviderScript   string
	ProviderClient   string
	ProviderUseFedCM bool
}

// HomePage renders the dashboard with the itinerary slab.
type HomePage struct {
	Page
	Profile UserProfile
	PlanSet *PlanSet
	Loading bool
	Answer  string
}

// ProfileSetupPage renders the preferences form.
type ProfileSetupPage struct {
	Page
	Profile   UserProfile
	Interests []string
	Saved     bool
	Error     string
}

// ProfilePage renders the identity card and saved preferences.
type ProfilePage struct {
	Page
	Profile UserProfile
}

// InsightsPage renders the legacy recommendations and trips feeds.
type InsightsPage struct {
	Page
	Recommendations []Recommendation
	Trips           []Trip
}

// MapPage renders the selected plan's stops.
type MapPage struct {
	Page
	Plan    Plan
	HasPlan bool
}

// DefaultNav returns the navbar entries for the signed-in state.
func DefaultNav() Navigation {
	return Navigation{Items: []NavItem{
		{Name: "Home", URL: "/"},
		{Name: "Map", URL: "/map"},
		{Name: "Insights", URL: "/insights"},
		{Name: "Profile", URL: "/profile"},
	}}
}

// PublicNav returns the navbar entries for anonymous visitors.
func PublicNav() Navigation {
	return Navigation{Items: []NavItem{
		{Name: "Home", URL: "/"},
		{Name: "Login", URL: "/login"},
		{Name: "Sign Up", URL: "/signup"},
	}}
}

// InterestOptions lists the selectable travel interests in display order.
func InterestOptions() []string {
	return []string{"Historical", "Adventure", "Nature", "Spiritual", "Beach", "Food", "Shopping", "Nightlife"}
}
