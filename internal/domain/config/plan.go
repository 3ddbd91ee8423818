package config

import (
	"fmt"
	"strings"
)

// Plan describes which artifacts and salt labels make up a deployment
type Plan struct {
	Contract       string     `yaml:"contract"`
	Factory        PlanStep   `yaml:"factory"`
	Implementation PlanStep   `yaml:"implementation"`
	Proxy          ProxyStep  `yaml:"proxy"`
	Upgrade        PlanStep   `yaml:"upgrade"`
	Executors      []string   `yaml:"executors,omitempty"`
	Metadata       PlanSource `yaml:"-"`
}

// PlanStep is a single artifact deployed under a salt label
type PlanStep struct {
	Artifact string `yaml:"artifact"`
	Salt     string `yaml:"salt,omitempty"`
}

// ProxyStep adds the initializer called through the proxy constructor
type ProxyStep struct {
	PlanStep    `yaml:",inline"`
	Initializer string `yaml:"initializer,omitempty"`
}

// PlanSource tracks where the plan was loaded from
type PlanSource struct {
	Path    string
	Default bool
}

// DefaultPlan derives artifact paths and salt labels from a contract name
func DefaultPlan(contract string) *Plan {
	p := &Plan{Contract: contract}
	p.ApplyDefaults()
	p.Metadata.Default = true
	return p
}

// ApplyDefaults fills unset fields from the contract name
func (p *Plan) ApplyDefaults() {
	if p.Contract == "" {
		p.Contract = "ExampleContract"
	}
	prefix := strings.ToUpper(p.Contract)
	if p.Factory.Artifact == "" {
		p.Factory.Artifact = foundryArtifact("Create2Factory")
	}
	if p.Implementation.Artifact == "" {
		p.Implementation.Artifact = foundryArtifact(p.Contract)
	}
	if p.Implementation.Salt == "" {
		p.Implementation.Salt = prefix + "_IMPLEMENTATION"
	}
	if p.Proxy.Artifact == "" {
		p.Proxy.Artifact = foundryArtifact("ERC1967Proxy")
	}
	if p.Proxy.Salt == "" {
		p.Proxy.Salt = prefix + "_PROXY"
	}
	if p.Proxy.Initializer == "" {
		p.Proxy.Initializer = "initialize"
	}
	if p.Upgrade.Artifact == "" {
		p.Upgrade.Artifact = foundryArtifact(p.Contract + "V2")
	}
	if p.Upgrade.Salt == "" {
		p.Upgrade.Salt = prefix + "_IMPLEMENTATION_V2"
	}
}

// Validate checks that salt labels don't collide
func (p *Plan) Validate() error {
	steps := []struct{ name, label string }{
		{"implementation", p.Implementation.Salt},
		{"proxy", p.Proxy.Salt},
		{"upgrade", p.Upgrade.Salt},
	}
	seen := make(map[string]string, len(steps))
	for _, s := range steps {
		if other, ok := seen[s.label]; ok {
			return fmt.Errorf("plan for %s: %s and %s share salt label %q", p.Contract, other, s.name, s.label)
		}
		seen[s.label] = s.name
	}
	return nil
}

func foundryArtifact(name string) string {
	return fmt.Sprintf("%s.sol/%s.json", name, name)
}
