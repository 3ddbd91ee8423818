package render

import (
	"fmt"
	"io"

	"github.com/samber/lo"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"github.com/trebuchet-org/c2d/internal/usecase"
)

const timeFormat = "2006-01-02 15:04:05"

// RecordRenderer renders persisted records
type RecordRenderer struct {
	out io.Writer
}

// NewRecordRenderer creates a new record renderer
func NewRecordRenderer(out io.Writer) *RecordRenderer {
	return &RecordRenderer{out: out}
}

// RenderRecord renders everything recorded for a contract on a network
func (r *RecordRenderer) RenderRecord(result *usecase.ShowRecordResult) error {
	headerStyle.Fprintf(r.out, "%s on %s\n", result.Contract, result.Network)

	sectionStyle.Fprintln(r.out, "\nFactory:")
	if f := result.Factory; f != nil {
		fmt.Fprintf(r.out, "  Address: %s\n", addressStyle.Sprint(f.FactoryAddress.Hex()))
		fmt.Fprintf(r.out, "  Deployed By: %s\n", f.DeployedBy.Hex())
		fmt.Fprintf(r.out, "  Deployed At: %s\n", timestampStyle.Sprint(f.DeployedAt.Format(timeFormat)))
	} else {
		fmt.Fprintln(r.out, faintStyle.Sprint("  not deployed"))
	}

	sectionStyle.Fprintln(r.out, "\nDeployment:")
	if d := result.Deployment; d != nil {
		r.renderDeployment(d)
	} else {
		fmt.Fprintln(r.out, faintStyle.Sprint("  not deployed"))
	}

	if result.Executors != nil && len(result.Executors.Executors) > 0 {
		sectionStyle.Fprintln(r.out, "\nExecutors:")
		r.renderExecutorTable(result.Executors)
	}

	if len(result.History) > 0 {
		sectionStyle.Fprintln(r.out, "\nUpgrade History:")
		r.renderHistoryTable(result.History)
	}
	return nil
}

// RenderHistory renders upgrade history entries oldest first
func (r *RecordRenderer) RenderHistory(history []*models.UpgradeHistoryEntry) error {
	if len(history) == 0 {
		fmt.Fprintln(r.out, "No upgrades recorded")
		return nil
	}
	r.renderHistoryTable(history)
	return nil
}

// RenderExecutors renders the executor registry
func (r *RecordRenderer) RenderExecutors(registry *models.ExecutorRegistry) error {
	if registry == nil || len(registry.Executors) == 0 {
		fmt.Fprintln(r.out, "No executors recorded")
		return nil
	}
	r.renderExecutorTable(registry)
	return nil
}

// RenderExecutorChange renders the result of setting an executor
func (r *RecordRenderer) RenderExecutorChange(result *usecase.SetExecutorResult) error {
	state := lo.Ternary(result.Status, "enabled", "disabled")
	if !result.Changed {
		fmt.Fprintf(r.out, "Executor %s already %s on proxy %s\n", result.Executor.Hex(), state, result.Proxy.Hex())
		return nil
	}
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Executor %s %s on proxy %s", result.Executor.Hex(), state, result.Proxy.Hex())))
	fmt.Fprintf(r.out, "  Transaction: %s\n", formatTxHash(result.TxHash))
	return nil
}

func (r *RecordRenderer) renderDeployment(d *models.DeploymentRecord) {
	fmt.Fprintf(r.out, "  Proxy: %s %s\n", addressStyle.Sprint(d.Proxy.Address.Hex()), labelStyle.Sprintf("(%s)", d.Proxy.SaltString))
	fmt.Fprintf(r.out, "  Implementation: %s %s\n", addressStyle.Sprint(d.Implementation.Address.Hex()), labelStyle.Sprintf("(%s)", d.Implementation.SaltString))
	fmt.Fprintf(r.out, "  Owner: %s\n", d.Owner.Hex())
	fmt.Fprintf(r.out, "  Factory: %s\n", d.FactoryAddress.Hex())
	fmt.Fprintf(r.out, "  Deployed At: %s\n", timestampStyle.Sprint(d.DeploymentDate.Format(timeFormat)))
	if d.Upgraded() {
		fmt.Fprintf(r.out, "  Previous Implementation: %s\n", d.PreviousImplementationAddress.Hex())
		if d.UpgradeDate != nil {
			fmt.Fprintf(r.out, "  Upgraded At: %s\n", timestampStyle.Sprint(d.UpgradeDate.Format(timeFormat)))
		}
	}
	fmt.Fprintf(r.out, "  Version: %d\n", d.Version)
}

func (r *RecordRenderer) renderExecutorTable(registry *models.ExecutorRegistry) {
	t := newTable(r.out)
	t.AppendHeader([]any{"Executor", "Status", "Updated", "By"})
	for _, addr := range registry.Addresses() {
		entry := registry.Executors[addr]
		t.AppendRow([]any{
			addressStyle.Sprint(addr.Hex()),
			lo.Ternary(entry.Status, deployedStyle.Sprint("enabled"), problemStyle.Sprint("disabled")),
			timestampStyle.Sprint(entry.UpdatedAt.Format(timeFormat)),
			entry.UpdatedBy.Hex(),
		})
	}
	t.Render()
}

func (r *RecordRenderer) renderHistoryTable(history []*models.UpgradeHistoryEntry) {
	t := newTable(r.out)
	t.AppendHeader([]any{"#", "From", "To", "Salt", "Recorded", "Transaction"})
	for i, entry := range history {
		t.AppendRow([]any{
			i + 1,
			entry.Previous.Implementation.Address.Hex(),
			addressStyle.Sprint(entry.Next.Implementation.Address.Hex()),
			labelStyle.Sprint(entry.Next.Implementation.SaltString),
			timestampStyle.Sprint(entry.RecordedAt.Format(timeFormat)),
			formatTxHash(entry.UpgradeTxHash),
		})
	}
	t.Render()
}
