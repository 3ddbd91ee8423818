package models

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Artifact is a compiled contract loaded from a Foundry or Hardhat build
type Artifact struct {
	Name     string
	Path     string
	Bytecode []byte   // creation code
	ABI      *abi.ABI // nil when the artifact carries no ABI
}

// PackInitializer encodes a call to a single-address initializer
func (a *Artifact) PackInitializer(method string, owner common.Address) ([]byte, error) {
	if a.ABI == nil {
		return nil, fmt.Errorf("artifact %s has no ABI", a.Name)
	}
	m, ok := a.ABI.Methods[method]
	if !ok {
		return nil, fmt.Errorf("artifact %s has no method %s", a.Name, method)
	}
	if len(m.Inputs) != 1 || m.Inputs[0].Type.T != abi.AddressTy {
		return nil, fmt.Errorf("initializer %s on %s must take a single address, got %s", method, a.Name, m.Sig)
	}
	return a.ABI.Pack(method, owner)
}
