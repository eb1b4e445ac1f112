// =============================================================================
// rakeprep - Shipment Summary
// =============================================================================
//
// This module computes the operator summary printed by the CLI and stored in
// the run report: row count, wagon total, cost total and wagons per
// destination.
//
// OUTPUT FORMAT:
//   Rows: 4
//   Wagons: 17
//   Total Cost: 575,000
//   By Destination (wagons):
//     - Chennai: 3
//     - Mumbai: 5
//
// =============================================================================

package summary

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/railops/rakeprep/internal/types"
)

// Summary holds the aggregate figures of a shipment list.
type Summary struct {
	Rows          int
	Wagons        int
	TotalCost     float64
	ByDestination map[string]int
}

// DestinationTotal is the wagon total of one destination.
type DestinationTotal struct {
	Destination string
	Wagons      int
}

// Summarize aggregates shipments.
func Summarize(shipments []types.Shipment) Summary {
	s := Summary{
		Rows:          len(shipments),
		ByDestination: make(map[string]int),
	}

	for _, sh := range shipments {
		s.Wagons += sh.WagonCount
		s.TotalCost += sh.CurrentCost
		s.ByDestination[sh.Destination] += sh.WagonCount
	}

	return s
}

// Destinations returns the per-destination totals sorted by name.
func (s Summary) Destinations() []DestinationTotal {
	out := make([]DestinationTotal, 0, len(s.ByDestination))
	for dest, wagons := range s.ByDestination {
		out = append(out, DestinationTotal{Destination: dest, Wagons: wagons})
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Destination < out[j].Destination
	})
	return out
}

// Print writes the summary in the operator format.
func Print(w io.Writer, s Summary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Rows: %d\n", s.Rows)
	fmt.Fprintf(&b, "Wagons: %d\n", s.Wagons)
	fmt.Fprintf(&b, "Total Cost: %s\n", FormatCost(s.TotalCost))
	b.WriteString("By Destination (wagons):\n")
	for _, d := range s.Destinations() {
		fmt.Fprintf(&b, "  - %s: %d\n", d.Destination, d.Wagons)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// FormatCost rounds a cost to a whole number and groups thousands with
// commas, e.g. 1234567.5 -> "1,234,568".
func FormatCost(cost float64) string {
	digits := strconv.FormatFloat(cost, 'f', 0, 64)

	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}

	return sign + b.String()
}
