package router

import (
	"regexp"

	"github.com/telmii/telmii/internal/core"
)

var (
	seriousTag  = regexp.MustCompile(`(?i)\bserious\b`)
	creativeTag = regexp.MustCompile(`(?i)\bcreative\b`)
)

// ParsePersonality reads the personality tag out of a companion seed.
// "serious" wins when both words appear.
func ParsePersonality(seed string) core.Personality {
	switch {
	case seriousTag.MatchString(seed):
		return core.PersonalitySerious
	case creativeTag.MatchString(seed):
		return core.PersonalityCreative
	default:
		return core.PersonalityDefault
	}
}
