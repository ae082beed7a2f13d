package feature

// Theme is an application color scheme.
type Theme struct {
	ID  string
	Pro bool
}

// DefaultTheme is used until the user picks another one.
const DefaultTheme = "dark"

// Themes lists the selectable schemes.
var Themes = []Theme{
	{ID: "dark"},
	{ID: "marathon", Pro: true},
	{ID: "green", Pro: true},
	{ID: "neon", Pro: true},
	{ID: "earth", Pro: true},
}

// LookupTheme finds a theme by id.
func LookupTheme(id string) (Theme, bool) {
	for _, t := range Themes {
		if t.ID == id {
			return t, true
		}
	}
	return Theme{}, false
}
