package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

// DeployRenderer renders deployment and upgrade results
type DeployRenderer struct {
	out     io.Writer
	network string
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer, network string) *DeployRenderer {
	return &DeployRenderer{out: out, network: network}
}

// RenderFactory renders the factory step
func (r *DeployRenderer) RenderFactory(result *usecase.DeployFactoryResult) error {
	headerStyle.Fprintf(r.out, "Factory on %s\n", r.network)
	fmt.Fprintf(r.out, "  Address: %s\n", addressStyle.Sprint(result.Record.FactoryAddress.Hex()))
	fmt.Fprintf(r.out, "  Outcome: %s\n", formatOutcome(result.Outcome))
	fmt.Fprintf(r.out, "  Deployed By: %s\n", result.Record.DeployedBy.Hex())
	if result.TxHash != nil {
		fmt.Fprintf(r.out, "  Transaction: %s\n", result.TxHash.Hex())
	}
	fmt.Fprintln(r.out)
	return nil
}

// RenderContracts renders the implementation and proxy steps
func (r *DeployRenderer) RenderContracts(result *usecase.DeployContractsResult) error {
	record := result.Record
	headerStyle.Fprintf(r.out, "%s on %s\n", record.Contract, r.network)

	t := newTable(r.out)
	t.AppendHeader([]any{"Step", "Salt", "Address", "Outcome", "Source", "Transaction"})
	for _, step := range []*models.StepResult{result.Implementation, result.Proxy} {
		t.AppendRow(stepRow(step))
	}
	t.Render()
	fmt.Fprintln(r.out)

	r.renderMismatches(result.Implementation, result.Proxy)

	switch {
	case result.Ownership.Verified && result.Ownership.Initialized:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Proxy initialized, owner is %s", result.Ownership.Owner.Hex())))
	case result.Ownership.Verified:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Owner is %s", result.Ownership.Owner.Hex())))
	default:
		fmt.Fprintln(r.out, FormatWarning(result.Ownership.Problem))
	}

	if result.RecordWritten {
		fmt.Fprintf(r.out, "Record written (version %d)\n", record.Version)
	} else {
		fmt.Fprintln(r.out, faintStyle.Sprint("Record unchanged"))
	}
	return nil
}

// RenderAll renders the factory step followed by the contract steps
func (r *DeployRenderer) RenderAll(result *usecase.DeployAllResult) error {
	if err := r.RenderFactory(result.Factory); err != nil {
		return err
	}
	return r.RenderContracts(result.Contracts)
}

// RenderUpgrade renders an upgrade
func (r *DeployRenderer) RenderUpgrade(result *usecase.UpgradeProxyResult) error {
	headerStyle.Fprintf(r.out, "Upgrade %s on %s\n", result.Record.Contract, r.network)
	fmt.Fprintf(r.out, "  Proxy: %s\n", addressStyle.Sprint(result.Record.Proxy.Address.Hex()))
	fmt.Fprintf(r.out, "  Previous Implementation: %s\n", result.Previous.Implementation.Address.Hex())
	fmt.Fprintf(r.out, "  New Implementation: %s %s\n",
		addressStyle.Sprint(result.Implementation.Address.Hex()),
		labelStyle.Sprintf("(%s)", result.Implementation.SaltLabel),
	)
	fmt.Fprintf(r.out, "  Implementation Deploy: %s\n", formatOutcome(result.Implementation.Outcome))
	fmt.Fprintf(r.out, "  Upgrade Transaction: %s\n", formatTxHash(result.UpgradeTxHash))
	fmt.Fprintln(r.out)

	r.renderMismatches(result.Implementation)

	switch {
	case result.RecordWritten:
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Record superseded (version %d)", result.Record.Version)))
		if result.HistoryPath != "" {
			fmt.Fprintf(r.out, "History: %s\n", faintStyle.Sprint(result.HistoryPath))
		}
	default:
		fmt.Fprintln(r.out, faintStyle.Sprint("Record already reflects this implementation"))
	}
	return nil
}

func (r *DeployRenderer) renderMismatches(steps ...*models.StepResult) {
	for _, step := range steps {
		if step != nil && step.Mismatch {
			fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf(
				"%s deployed at %s but %s was predicted",
				step.Name, step.Address.Hex(), step.Predicted.Hex(),
			)))
		}
	}
}

func stepRow(step *models.StepResult) []any {
	return []any{
		step.Name,
		labelStyle.Sprint(step.SaltLabel),
		addressStyle.Sprint(step.Address.Hex()),
		formatOutcome(step.Outcome),
		faintStyle.Sprint(string(step.Source)),
		formatTxHash(step.TxHash),
	}
}
