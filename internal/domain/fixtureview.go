package domain

import "luxdeck/internal/model"

// ChannelsPerPage is the raw view's fixed page size.
const ChannelsPerPage = 16

// ParameterValue is one fixture parameter resolved against the draft.
type ParameterValue struct {
	Name     string
	Role     string
	Universe model.UniverseID
	Channel  int // 1-based, as in the plan
	Value    byte
}

// FixtureGroup is one fixture with its visible parameters.
type FixtureGroup struct {
	Fixture    string
	Parameters []ParameterValue
}

// FixtureGroups projects the draft through the fixture plan for one
// universe. It is a pure derivation: recompute it whenever the draft, the
// plan or the selected universe changes, and never cache values elsewhere.
//
// Parameters whose channel falls outside the universe's current length are
// silently omitted (the plan may reference a universe shorter than it
// expects); fixtures left with no visible parameters are omitted entirely.
// Plan order is preserved, no resorting.
func FixtureGroups(draft model.Universes, plan *model.FixturePlan, universe model.UniverseID) []FixtureGroup {
	if plan == nil || !plan.Active {
		return nil
	}

	channels := draft[universe]
	groups := make([]FixtureGroup, 0, len(plan.Fixtures))

	for _, fixture := range plan.Fixtures {
		var params []ParameterValue

		for _, p := range fixture.Parameters {
			if p.Universe != universe {
				continue
			}

			idx := p.Channel - 1
			if idx < 0 || idx >= len(channels) {
				continue
			}

			params = append(params, ParameterValue{
				Name:     p.Name,
				Role:     p.Role,
				Universe: p.Universe,
				Channel:  p.Channel,
				Value:    channels[idx],
			})
		}

		if len(params) == 0 {
			continue
		}

		groups = append(groups, FixtureGroup{Fixture: fixture.Fixture, Parameters: params})
	}

	return groups
}

// RawPage is one page of the raw channel view.
type RawPage struct {
	Universe  model.UniverseID
	Page      int // clamped, 0-based
	PageCount int
	Start     int // channel index of Values[0]
	Values    []byte
}

// PageCount returns ceil(length/ChannelsPerPage), at least 1.
func PageCount(length int) int {
	if length <= 0 {
		return 1
	}

	return (length + ChannelsPerPage - 1) / ChannelsPerPage
}

// ClampPage pins a possibly stale page index into the valid range for a
// universe of the given length.
func ClampPage(page, length int) int {
	last := PageCount(length) - 1

	if page < 0 {
		return 0
	}

	if page > last {
		return last
	}

	return page
}

// RawPageFor slices one page out of the selected universe. The stored page
// index may be stale relative to a shorter universe; it is clamped, never
// trusted.
func RawPageFor(draft model.Universes, universe model.UniverseID, page int) RawPage {
	channels := draft[universe]
	clamped := ClampPage(page, len(channels))
	start := clamped * ChannelsPerPage

	end := start + ChannelsPerPage
	if end > len(channels) {
		end = len(channels)
	}

	if start > len(channels) {
		start = len(channels)
	}

	return RawPage{
		Universe:  universe,
		Page:      clamped,
		PageCount: PageCount(len(channels)),
		Start:     start,
		Values:    channels[start:end],
	}
}
