package domain

import (
	"errors"
)

var (
	ErrPromptNotFound    = errors.New("prompt preset not found")
	ErrLastEnabledPrompt = errors.New("at least one prompt must stay enabled")
	ErrBadPromptOrder    = errors.New("order must list every prompt id exactly once")
)

// PromptPreset is one generation prompt theme. Presets are configuration,
// not user data: the set is versioned, ordered, and mutated only through
// explicit enable/disable/reorder operations.
type PromptPreset struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Template string `json:"template"`
	Enabled  bool   `json:"enabled"`
}

// PromptConfig is the full ordered preset list plus a version bumped on
// every mutation.
type PromptConfig struct {
	Version int            `json:"version"`
	Presets []PromptPreset `json:"presets"`
}

// DefaultPromptConfig returns the built-in preset catalog.
func DefaultPromptConfig() *PromptConfig {
	return &PromptConfig{
		Version: 1,
		Presets: []PromptPreset{
			{ID: "gratitude", Title: "Gratitude", Template: "Reflect on what you are grateful for today.", Enabled: true},
			{ID: "growth", Title: "Growth", Template: "What challenged you today, and what did it teach you?", Enabled: true},
			{ID: "connection", Title: "Connection", Template: "Who mattered to you today, and why?", Enabled: true},
			{ID: "energy", Title: "Energy", Template: "What gave you energy today? What drained it?", Enabled: true},
			{ID: "intention", Title: "Intention", Template: "What do you want tomorrow to look like?", Enabled: true},
		},
	}
}

func (c *PromptConfig) find(id string) *PromptPreset {
	for i := range c.Presets {
		if c.Presets[i].ID == id {
			return &c.Presets[i]
		}
	}
	return nil
}

func (c *PromptConfig) enabledCount() int {
	n := 0
	for _, p := range c.Presets {
		if p.Enabled {
			n++
		}
	}
	return n
}

// Enabled returns the enabled presets in order.
func (c *PromptConfig) Enabled() []PromptPreset {
	var out []PromptPreset
	for _, p := range c.Presets {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

func (c *PromptConfig) Enable(id string) error {
	p := c.find(id)
	if p == nil {
		return ErrPromptNotFound
	}
	if !p.Enabled {
		p.Enabled = true
		c.Version++
	}
	return nil
}

// Disable turns a preset off, refusing to disable the last enabled one.
func (c *PromptConfig) Disable(id string) error {
	p := c.find(id)
	if p == nil {
		return ErrPromptNotFound
	}
	if !p.Enabled {
		return nil
	}
	if c.enabledCount() == 1 {
		return ErrLastEnabledPrompt
	}
	p.Enabled = false
	c.Version++
	return nil
}

// Reorder rearranges presets to match the given id sequence, which must be
// a permutation of the current ids.
func (c *PromptConfig) Reorder(ids []string) error {
	if len(ids) != len(c.Presets) {
		return ErrBadPromptOrder
	}

	reordered := make([]PromptPreset, 0, len(c.Presets))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return ErrBadPromptOrder
		}
		seen[id] = true

		p := c.find(id)
		if p == nil {
			return ErrBadPromptOrder
		}
		reordered = append(reordered, *p)
	}

	c.Presets = reordered
	c.Version++
	return nil
}
