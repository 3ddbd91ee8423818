package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/c2d/internal/usecase"
)

// PredictRenderer renders predicted addresses
type PredictRenderer struct {
	out io.Writer
}

// NewPredictRenderer creates a new predict renderer
func NewPredictRenderer(out io.Writer) *PredictRenderer {
	return &PredictRenderer{out: out}
}

// Render displays one row per planned deployment
func (r *PredictRenderer) Render(result *usecase.PredictAddressesResult) error {
	headerStyle.Fprintf(r.out, "Predicted addresses on %s\n", result.Network)
	fmt.Fprintf(r.out, "  Factory: %s\n", result.Factory.Hex())
	fmt.Fprintf(r.out, "  Caller: %s\n", result.Caller.Hex())
	fmt.Fprintf(r.out, "  Scheme: %s\n\n", result.Scheme)

	onChain := len(result.Addresses) > 0 && result.Addresses[0].Deployed != nil

	t := newTable(r.out)
	header := []any{"Name", "Salt", "Address"}
	if onChain {
		header = append(header, "Deployed", "Factory")
	}
	t.AppendHeader(header)

	var warnings []string
	for _, p := range result.Addresses {
		row := []any{p.Name, labelStyle.Sprint(p.SaltLabel), addressStyle.Sprint(p.Address.Hex())}
		if onChain {
			row = append(row, formatDeployed(p.Deployed), formatFactoryCheck(p))
		}
		t.AppendRow(row)

		switch {
		case p.FactoryMismatch():
			warnings = append(warnings, fmt.Sprintf("factory predicts %s for %s", p.FactoryAddress.Hex(), p.Name))
		case p.FactoryError != "":
			warnings = append(warnings, fmt.Sprintf("getDeployed failed for %s: %s", p.Name, p.FactoryError))
		}
	}
	t.Render()

	if len(warnings) > 0 {
		fmt.Fprintln(r.out)
		for _, w := range warnings {
			fmt.Fprintln(r.out, FormatWarning(w))
		}
	}
	return nil
}

func formatDeployed(deployed *bool) string {
	switch {
	case deployed == nil:
		return faintStyle.Sprint("-")
	case *deployed:
		return deployedStyle.Sprint("yes")
	default:
		return skippedStyle.Sprint("no")
	}
}

func formatFactoryCheck(p *usecase.PredictedAddress) string {
	switch {
	case p.FactoryError != "":
		return problemStyle.Sprint("error")
	case p.FactoryAddress == nil:
		return faintStyle.Sprint("-")
	case p.FactoryMismatch():
		return problemStyle.Sprint("✗ mismatch")
	default:
		return deployedStyle.Sprint("✓")
	}
}
