package config

import (
	"sort"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/c2d/internal/domain"
	"github.com/trebuchet-org/c2d/internal/domain/config"
)

const (
	// DefaultNetwork is used when neither --network nor C2D_NETWORK is set
	DefaultNetwork = "local"
	// LocalRPCURL is the local development node when "local" isn't configured
	LocalRPCURL = "http://127.0.0.1:8545"
)

// NetworkResolver resolves network names against c2d.toml
type NetworkResolver struct {
	networks map[string]NetworkTOML
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(project *ProjectFile) *NetworkResolver {
	return &NetworkResolver{networks: project.Networks}
}

// Names returns configured network names in order
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.networks)
	sort.Strings(names)
	return names
}

// Resolve returns the network configuration for name. The local network works
// without configuration.
func (r *NetworkResolver) Resolve(name string) (*config.Network, error) {
	if n, ok := r.networks[name]; ok {
		return &config.Network{
			Name:        name,
			ChainID:     n.ChainID,
			RPCURL:      n.RPCURL,
			ExplorerURL: n.ExplorerURL,
		}, nil
	}

	if name == DefaultNetwork {
		return &config.Network{Name: name, RPCURL: LocalRPCURL}, nil
	}

	return nil, &domain.UnknownNetworkError{Name: name, Suggestions: r.Suggest(name)}
}

// Suggest returns up to three configured names that fuzzily match name
func (r *NetworkResolver) Suggest(name string) []string {
	matches := fuzzy.Find(name, r.Names())
	suggestions := lo.Map(matches, func(m fuzzy.Match, _ int) string {
		return m.Str
	})
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}
