package model

// FixtureParameter maps one named device parameter to a (universe, channel)
// location. Channel numbers are 1-based, as printed on fixture data sheets.
type FixtureParameter struct {
	Universe UniverseID `json:"universe" yaml:"universe"`
	Channel  int        `json:"channel" yaml:"channel"`
	Name     string     `json:"name" yaml:"name"`
	Role     string     `json:"role" yaml:"role"`
}

// Fixture is one physical device in the plan.
type Fixture struct {
	Fixture    string             `json:"fixture" yaml:"fixture"`
	Parameters []FixtureParameter `json:"parameters" yaml:"parameters"`
}

// FixturePlan is the externally authored mapping from device parameters to
// channel locations. The editor treats it as read-only and does not
// validate it; a malformed plan may map two parameters to the same channel.
type FixturePlan struct {
	Active   bool      `json:"active" yaml:"active"`
	Fixtures []Fixture `json:"fixtures" yaml:"fixtures"`
}
