package platform

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/pdiddy/graph-structure/internal/node"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// RegistryEntry is one [[participant]] table of the registry file.
type RegistryEntry struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Registry lists the participants a hub serves and where their nodes
// listen.
type Registry struct {
	Participants []RegistryEntry `toml:"participant"`
}

// LoadRegistry reads a TOML participant registry.
func LoadRegistry(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, fmt.Errorf("reading participant registry %s: %w", path, err)
	}

	var reg Registry
	if err := toml.Unmarshal(data, &reg); err != nil {
		return Registry{}, fmt.Errorf("parsing participant registry %s: %w", path, err)
	}

	seen := make(map[string]bool, len(reg.Participants))
	for i, p := range reg.Participants {
		switch {
		case p.ID == "":
			return Registry{}, fmt.Errorf("participant %d: missing id", i+1)
		case p.URL == "":
			return Registry{}, fmt.Errorf("participant %q: missing url", p.ID)
		case seen[p.ID]:
			return Registry{}, fmt.Errorf("participant %q listed twice", p.ID)
		}
		seen[p.ID] = true
	}
	return reg, nil
}

// Members builds hub members whose runners call each node over HTTP.
func (r Registry) Members(cfg types.HTTPConfig) []Member {
	members := make([]Member, 0, len(r.Participants))
	for _, p := range r.Participants {
		members = append(members, Member{
			Participant: types.Participant{ID: p.ID, Name: p.Name},
			Runner:      node.NewClient(p.URL, cfg),
		})
	}
	return members
}
