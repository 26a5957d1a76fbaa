package router

import (
	"sort"

	"github.com/telmii/telmii/internal/config"
	"github.com/telmii/telmii/internal/core"
)

// Route is one category's provider assignment. Pinned routes ignore the
// personality override.
type Route struct {
	Provider core.Provider
	Model    string
	Pinned   bool
}

// Table maps companion categories to routes. Lookups are exact and case-sensitive.
type Table struct {
	routes       map[string]Route
	fallback     Route
	serious      core.ProviderChoice
	creative     core.ProviderChoice
	defaultModel string
}

// NewTable builds the category table from configured model names.
func NewTable(cfg *config.RouterConfig) *Table {
	routes := map[string]Route{
		"Mentors":      {Provider: core.ProviderBedrock, Model: cfg.MentorsModel(), Pinned: true},
		"Career":       {Provider: core.ProviderBedrock, Model: cfg.CareerModel(), Pinned: true},
		"Technology":   {Provider: core.ProviderOpenAI, Model: cfg.OpenAITech},
		"Sports":       {Provider: core.ProviderOpenAI, Model: cfg.OpenAISports},
		"Movies & TV":  {Provider: core.ProviderGoogle, Model: cfg.GoogleMovies},
		"Music":        {Provider: core.ProviderGoogle, Model: cfg.GoogleMusic},
		"Friends":      {Provider: core.ProviderXAI, Model: cfg.XAIFriends},
		"Gaming":       {Provider: core.ProviderXAI, Model: cfg.XAIGaming},
		"Travel":       {Provider: core.ProviderXAI, Model: cfg.XAITravel},
		"Spirituality": {Provider: core.ProviderXAI, Model: cfg.XAISpiritual},
		"General":      {Provider: core.ProviderXAI, Model: cfg.XAIDefault},
	}

	fallback, ok := routes[cfg.DefaultCategory]
	if !ok {
		fallback = routes["General"]
	}

	return &Table{
		routes:       routes,
		fallback:     fallback,
		serious:      core.ProviderChoice{Provider: core.ProviderBedrock, ModelName: cfg.BedrockDefault},
		creative:     core.ProviderChoice{Provider: core.ProviderGoogle, ModelName: cfg.GoogleCreative},
		defaultModel: cfg.BedrockDefault,
	}
}

// Lookup returns the route for category, or the fallback route on a miss.
func (t *Table) Lookup(category string) (Route, bool) {
	r, ok := t.routes[category]
	if !ok {
		return t.fallback, false
	}
	return r, true
}

// Categories lists the configured categories in sorted order.
func (t *Table) Categories() []string {
	out := make([]string, 0, len(t.routes))
	for c := range t.routes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
