package model

// Project is a named time accumulator with its own timer.
type Project struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	TimeInSeconds int64       `json:"timeInSeconds"`
	AccentColor   AccentColor `json:"accentColor"`
	IsRunning     bool        `json:"isRunning"`
	// LastStartTime is the epoch-millisecond instant the timer was last
	// started; nil while stopped.
	LastStartTime *int64   `json:"lastStartTime"`
	TagIDs        []string `json:"tagIds"`
}

// HasTag reports whether the project references tagID.
func (p Project) HasTag(tagID string) bool {
	for _, id := range p.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with p.
func (p Project) Clone() Project {
	c := p
	c.TagIDs = append([]string{}, p.TagIDs...)
	if p.LastStartTime != nil {
		ts := *p.LastStartTime
		c.LastStartTime = &ts
	}
	return c
}

// Tag is a user-defined colored label used to filter projects.
type Tag struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Color AccentColor `json:"color"`
}

// ProjectPatch carries the optional fields of a project update.
// A nil field is left untouched.
type ProjectPatch struct {
	Name          *string
	TimeInSeconds *int64
	AccentColor   *AccentColor
	TagIDs        *[]string
}

// TagPatch carries the optional fields of a tag update.
type TagPatch struct {
	Name  *string
	Color *AccentColor
}
