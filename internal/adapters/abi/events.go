package abi

import (
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/c2d/internal/adapters/abi/bindings"
)

// LogKind tags a receipt log after classification
type LogKind int

const (
	UnrecognizedLog LogKind = iota
	DeployedLog
	UpgradedLog
)

func (k LogKind) String() string {
	switch k {
	case DeployedLog:
		return "Deployed"
	case UpgradedLog:
		return "Upgraded"
	default:
		return "unrecognized"
	}
}

// ScannedLog is one receipt log tagged with what it decoded to.
// Exactly one of Deployed/Upgraded is set for recognized kinds.
type ScannedLog struct {
	Kind     LogKind
	Index    int
	Raw      *types.Log
	Deployed *bindings.Create2FactoryDeployed
	Upgraded *bindings.UpgradeableUpgraded
}

// EventScanner classifies receipt logs against the factory and proxy interfaces
type EventScanner struct {
	factory     *bindings.Create2Factory
	upgradeable *bindings.Upgradeable
	deployedID  common.Hash
	upgradedID  common.Hash
	log         *slog.Logger
}

// NewEventScanner creates a new event scanner
func NewEventScanner(log *slog.Logger) *EventScanner {
	must := func(hash common.Hash, err error) common.Hash {
		if err != nil {
			panic(err)
		}
		return hash
	}

	factory := bindings.NewCreate2Factory()
	upgradeable := bindings.NewUpgradeable()

	return &EventScanner{
		factory:     factory,
		upgradeable: upgradeable,
		deployedID:  must(factory.GetEventID(bindings.Create2FactoryDeployedEventName)),
		upgradedID:  must(upgradeable.GetEventID(bindings.UpgradeableUpgradedEventName)),
		log:         log.With("component", "EventScanner"),
	}
}

// Scan classifies every log in receipt order. Logs that fail to decode are
// reported as unrecognized rather than aborting the scan.
func (s *EventScanner) Scan(logs []*types.Log) []ScannedLog {
	scanned := make([]ScannedLog, 0, len(logs))
	for i, l := range logs {
		entry := ScannedLog{Kind: UnrecognizedLog, Index: i, Raw: l}
		if l == nil || len(l.Topics) == 0 {
			scanned = append(scanned, entry)
			continue
		}

		switch l.Topics[0] {
		case s.deployedID:
			ev, err := s.factory.UnpackDeployedEvent(l)
			if err != nil {
				s.log.Debug("Skipping malformed Deployed log", "index", i, "error", err)
				break
			}
			entry.Kind = DeployedLog
			entry.Deployed = ev
		case s.upgradedID:
			ev, err := s.upgradeable.UnpackUpgradedEvent(l)
			if err != nil {
				s.log.Debug("Skipping malformed Upgraded log", "index", i, "error", err)
				break
			}
			entry.Kind = UpgradedLog
			entry.Upgraded = ev
		}

		scanned = append(scanned, entry)
	}
	return scanned
}

// FindDeployed returns the first Deployed event emitted by factory.
// A zero factory address accepts any emitter. ok is false when no log matches.
func (s *EventScanner) FindDeployed(logs []*types.Log, factory common.Address) (ev *bindings.Create2FactoryDeployed, ok bool) {
	for _, entry := range s.Scan(logs) {
		if entry.Kind != DeployedLog {
			continue
		}
		if factory != (common.Address{}) && entry.Raw.Address != factory {
			s.log.Debug("Ignoring Deployed log from foreign emitter", "emitter", entry.Raw.Address, "factory", factory)
			continue
		}
		return entry.Deployed, true
	}
	return nil, false
}

// FindUpgraded returns the first Upgraded event emitted by proxy
func (s *EventScanner) FindUpgraded(logs []*types.Log, proxy common.Address) (ev *bindings.UpgradeableUpgraded, ok bool) {
	for _, entry := range s.Scan(logs) {
		if entry.Kind == UpgradedLog && entry.Raw.Address == proxy {
			return entry.Upgraded, true
		}
	}
	return nil, false
}
