package model

import "time"

// MachineIcons is the fixed set of symbols a machine may be tagged with.
var MachineIcons = []string{
	"⚡", "💎", "🔬", "🧬", "💆", "🩺", "🔮", "✨", "🌟", "💫",
	"🎯", "🧪", "💡", "🌀", "❄️", "🔥", "💧", "🌿", "🏥", "⭐",
}

// DefaultMachineIcon is applied when a machine is created with no icon.
const DefaultMachineIcon = "⚡"

// ValidMachineIcon reports whether icon belongs to the fixed icon set.
func ValidMachineIcon(icon string) bool {
	for _, i := range MachineIcons {
		if i == icon {
			return true
		}
	}
	return false
}

// Machine represents a piece of equipment that can be allocated to one
// clinic per calendar day.
type Machine struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
}
