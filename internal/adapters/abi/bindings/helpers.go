package bindings

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// GetEventID returns the event signature hash for a given event name
// This is a helper method that works alongside the generated ABI bindings
func (create2Factory *Create2Factory) GetEventID(eventName string) (common.Hash, error) {
	event, exists := create2Factory.abi.Events[eventName]
	if !exists {
		return common.Hash{}, fmt.Errorf("event %s not found", eventName)
	}
	return event.ID, nil
}

// GetEventID returns the event signature hash for a given event name
func (upgradeable *Upgradeable) GetEventID(eventName string) (common.Hash, error) {
	event, exists := upgradeable.abi.Events[eventName]
	if !exists {
		return common.Hash{}, fmt.Errorf("event %s not found", eventName)
	}
	return event.ID, nil
}

// PackInitializer encodes a single-address initializer call by method name
func (upgradeable *Upgradeable) PackInitializer(method string, owner common.Address) ([]byte, error) {
	if _, ok := upgradeable.abi.Methods[method]; !ok {
		return nil, fmt.Errorf("initializer %s not found", method)
	}
	return upgradeable.abi.Pack(method, owner)
}

func (e *Create2FactoryDeployed) String() string {
	return fmt.Sprintf(
		"%s: deployer=%s deployed=%s salt=%x",
		e.ContractEventName(),
		e.Deployer.Hex(),
		e.Deployed.Hex(),
		e.Salt,
	)
}

func (e *UpgradeableUpgraded) String() string {
	return fmt.Sprintf("%s: implementation=%s", e.ContractEventName(), e.Implementation.Hex())
}
