package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/trebuchet-org/c2d/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Color styles shared by the renderers
var (
	headerStyle    = color.New(color.FgCyan, color.Bold)
	sectionStyle   = color.New(color.Bold, color.FgHiWhite)
	addressStyle   = color.New(color.FgWhite)
	labelStyle     = color.New(color.FgMagenta)
	faintStyle     = color.New(color.Faint)
	deployedStyle  = color.New(color.FgGreen)
	skippedStyle   = color.New(color.FgYellow)
	problemStyle   = color.New(color.FgRed)
	timestampStyle = color.New(color.Faint)
)

var titleCase = cases.Title(language.English)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// FormatError formats an error message with the error icon
func FormatError(message string) string {
	// Only the innermost cause of an error chain is shown
	parts := strings.Split(message, ": ")
	msg := parts[len(parts)-1]

	if len(msg) > 0 {
		msg = strings.ToUpper(msg[:1]) + msg[1:]
	}

	return color.New(color.FgRed).Sprintf("❌ %s", msg)
}

// FormatSuccess formats a success message with the success icon
func FormatSuccess(message string) string {
	return color.New(color.FgGreen).Sprintf("✅ %s", message)
}

// RenderJSON writes v as indented JSON
func RenderJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func formatOutcome(outcome models.DeployOutcome) string {
	label := titleCase.String(string(outcome))
	if outcome == models.OutcomeDeployed {
		return deployedStyle.Sprint(label)
	}
	return skippedStyle.Sprint(label)
}

func formatTxHash(hash *common.Hash) string {
	if hash == nil {
		return faintStyle.Sprint("-")
	}
	return hash.Hex()
}

// newTable returns a borderless table in the list style
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight:     "   ",
		MiddleHorizontal: "─",
	}
	t.Style().Format.Header = text.FormatUpper
	return t
}
