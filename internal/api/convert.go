package api

import "luxdeck/internal/model"

// FromUniverses converts channel arrays to their wire form.
func FromUniverses(u model.Universes) map[string][]int {
	if u == nil {
		return nil
	}

	out := make(map[string][]int, len(u))

	for id, channels := range u {
		values := make([]int, len(channels))
		for i, v := range channels {
			values[i] = int(v)
		}

		out[string(id)] = values
	}

	return out
}

// ToUniverses converts wire arrays back to channel arrays. Values are
// truncated into [0,255]; the rig never stores anything wider.
func ToUniverses(wire map[string][]int) model.Universes {
	if wire == nil {
		return nil
	}

	out := make(model.Universes, len(wire))

	for id, values := range wire {
		channels := make([]byte, len(values))
		for i, v := range values {
			if v < 0 {
				v = 0
			}

			if v > 255 {
				v = 255
			}

			channels[i] = byte(v)
		}

		out[model.UniverseID(id)] = channels
	}

	return out
}
