package routing

import (
	"fmt"
	"strings"
)

// GenerateInstruction maps an OSRM maneuver type and optional modifier to a
// human-readable instruction. Unknown maneuver types fall back to the raw
// "type modifier" text rather than failing.
func GenerateInstruction(maneuverType, modifier string) string {
	switch maneuverType {
	case "depart":
		return "Head out"
	case "turn":
		if modifier != "" {
			return fmt.Sprintf("Turn %s", modifier)
		}
		return "Turn"
	case "new name":
		return "Continue straight"
	case "continue":
		if modifier != "" && modifier != "straight" {
			return fmt.Sprintf("Continue %s", modifier)
		}
		return "Continue"
	case "merge":
		if modifier != "" {
			return fmt.Sprintf("Merge %s", modifier)
		}
		return "Merge"
	case "on ramp":
		return "Take the ramp"
	case "off ramp":
		return "Take the exit"
	case "fork":
		if modifier != "" {
			return fmt.Sprintf("Keep %s at the fork", modifier)
		}
		return "Keep to the fork"
	case "end of road":
		if modifier != "" {
			return fmt.Sprintf("Turn %s at the end of the road", modifier)
		}
		return "Continue at the end of the road"
	case "use lane":
		return "Use the indicated lane"
	case "roundabout":
		return "Enter the roundabout"
	case "roundabout turn":
		if modifier != "" {
			return fmt.Sprintf("At the roundabout, turn %s", modifier)
		}
		return "At the roundabout, continue"
	case "exit roundabout":
		return "Exit the roundabout"
	case "arrive":
		return "You have arrived at your destination"
	default:
		return strings.TrimSpace(fmt.Sprintf("%s %s", maneuverType, modifier))
	}
}
