package sensitivity

import (
	"fmt"
	"strings"
)

// Format renders one metric's planes as fixed-width text tables, price
// factors down the rows and yield factors across the columns. Values
// are thousands of dollars, rounded to the nearest thousand.
func Format(res *Result, m Metric) string {
	var b strings.Builder
	for _, plane := range res.Planes[m] {
		fmt.Fprintf(&b, "%s: %s ($000)\n", plane.Label, m)
		b.WriteString("  Pf\\Yf")
		for _, yf := range res.YieldFactors {
			fmt.Fprintf(&b, "%9.2f", yf)
		}
		b.WriteByte('\n')
		for i, pf := range res.PriceFactors {
			fmt.Fprintf(&b, "%7.2f", pf)
			for j := range res.YieldFactors {
				fmt.Fprintf(&b, "%9.0f", plane.Cells[i][j])
			}
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}
	return b.String()
}
