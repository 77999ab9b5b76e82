package capture

import (
	"fmt"
	"math/rand/v2"
)

var (
	nameAdjectives = []string{
		"Amber", "Bright", "Calm", "Clever", "Crisp", "Eager", "Gentle", "Golden",
		"Lively", "Lucky", "Mellow", "Quiet", "Rapid", "Silver", "Steady", "Sunny",
	}
	nameNouns = []string{
		"Briefing", "Chat", "Huddle", "Meeting", "Review", "Session", "Standup", "Summit",
		"Sync", "Talk", "Workshop", "Roundtable",
	}
)

// FriendlyName returns a random human readable recording name such as "Sunny Huddle 417"
func FriendlyName() string {
	return fmt.Sprintf("%s %s %d",
		nameAdjectives[rand.IntN(len(nameAdjectives))],
		nameNouns[rand.IntN(len(nameNouns))],
		100+rand.IntN(900))
}
