// internal/report/report.go
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/tamzrod/motorctl/internal/operation"
	"github.com/tamzrod/motorctl/internal/poller"
	"github.com/tamzrod/motorctl/internal/registers"
)

// Read writes one line per read result.
func Read(w io.Writer, results []operation.Result) {
	for _, r := range results {
		fmt.Fprintln(w, ReadLine(r))
	}
}

// ReadLine renders a read outcome with value, meaning and raw words.
func ReadLine(r operation.Result) string {
	if !r.Resolved {
		return fmt.Sprintf("%s: NOT FOUND (%v)", r.ID, r.Err)
	}

	d := r.Register
	switch r.Stage {
	case operation.StageTransporting:
		return fmt.Sprintf("%s(%d): FAILED (Modbus Err: %d)", d.Name, d.Number, r.TransportCode())
	case operation.StageDecoding:
		return fmt.Sprintf("%s(%d): DECODE ERROR (%v), Raw=%s", d.Name, d.Number, r.Err, words(r.Raw))
	}

	return fmt.Sprintf("%s(%d): Val=%s%s, Raw=%s(Hex:%s)",
		d.Name, d.Number, r.Value, meaning(r), words(r.Raw), hexWords(r.Raw))
}

// WatchCycle renders one poll cycle: a separator, then one line per register.
func WatchCycle(w io.Writer, res poller.PollResult) {
	fmt.Fprintln(w, "---")
	for _, it := range res.Items {
		fmt.Fprintln(w, WatchLine(it))
	}
}

// WatchLine renders one watched register.
func WatchLine(it poller.Item) string {
	r := it.Result
	d := r.Register

	if r.OK() {
		return fmt.Sprintf("%s(%d): %s%s", d.Name, d.Number, r.Value, meaning(r))
	}
	if r.Stage == operation.StageTransporting {
		return fmt.Sprintf("%s(%d): FAILED (Modbus Err: %d, %d in a row)", d.Name, d.Number, r.TransportCode(), it.Health.Failures)
	}
	return fmt.Sprintf("%s(%d): COMM ERROR (%v)", d.Name, d.Number, r.Err)
}

// Write renders a write outcome.
func Write(w io.Writer, r operation.Result) {
	fmt.Fprintln(w, WriteLine(r))
}

func WriteLine(r operation.Result) string {
	name := r.ID
	if r.Resolved {
		name = r.Register.Name
	}
	if r.OK() {
		return fmt.Sprintf("Success writing '%s' to %s, Raw=%s(Hex:%s)", r.Input, name, words(r.Raw), hexWords(r.Raw))
	}
	if r.Stage == operation.StageTransporting {
		return fmt.Sprintf("Failed write '%s' to %s. Modbus Error Code: %d", r.Input, name, r.TransportCode())
	}
	return fmt.Sprintf("Rejected write '%s' to %s: %v", r.Input, name, r.Err)
}

// Catalog renders the register table.
func Catalog(w io.Writer, filter string, regs []registers.Descriptor) {
	if filter == "" {
		filter = "None"
	}
	fmt.Fprintf(w, "\nDefined Registers (Filter: %s):\n", filter)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Num", "Name", "Size", "R/W", "Mapped", "Description"})
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, d := range regs {
		mapped := "No"
		if d.Meaning.Mapped() {
			mapped = "Yes"
		}
		table.Append([]string{
			strconv.Itoa(int(d.Number)),
			d.Name,
			fmt.Sprintf("%d-bit", d.SizeBits()),
			d.Access.String(),
			mapped,
			d.Description,
		})
	}
	table.Render()

	fmt.Fprintf(w, "Total matching: %d\n", len(regs))
}

func meaning(r operation.Result) string {
	if !r.Annotated {
		return ""
	}
	return " (" + r.Annotation.String() + ")"
}

func words(ws []uint16) string {
	parts := make([]string, len(ws))
	for i, v := range ws {
		parts[i] = strconv.Itoa(int(v))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func hexWords(ws []uint16) string {
	parts := make([]string, len(ws))
	for i, v := range ws {
		parts[i] = fmt.Sprintf("%04X", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
