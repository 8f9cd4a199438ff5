package daemon

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/theirongolddev/debtgauge/internal/cli"
	"github.com/theirongolddev/debtgauge/internal/gauge"
)

const (
	svgFont     = "Arial, sans-serif"
	svgInk      = "#454749"
	svgTrack    = "#D9D9D9"
	svgFontSize = 12.0
)

// renderSVG draws a layout the way the web gauge lays it out: the track sits
// inside the padding and every marker is offset from the element's left edge.
func renderSVG(in gauge.Input, out gauge.Output, currency string) []byte {
	pad := in.Padding
	top := pad * 1.5
	height := top + 5 + pad*2
	if height < top+44 {
		height = top + 44
	}

	var svg bytes.Buffer
	fmt.Fprintf(&svg, `<svg xmlns="http://www.w3.org/2000/svg" width="%.2f" height="%.2f" viewBox="0 0 %.2f %.2f">`+"\n",
		in.TrackWidth, height, in.TrackWidth, height)

	fmt.Fprintf(&svg, `  <rect class="range" x="%.2f" y="%.2f" width="%.2f" height="5" fill="%s" stroke="%s"/>`+"\n",
		pad, top, in.TrackWidth-pad*2, svgTrack, svgInk)

	if out.ActualWidth > 0 {
		fmt.Fprintf(&svg, `  <rect class="actual" x="%.2f" y="%.2f" width="%.2f" height="5" fill="%s" stroke="%s"/>`+"\n",
			out.BarLeft(), top, out.ActualWidth, out.Fill.Hex(), svgInk)
	}

	tick := func(class string, x float64) {
		fmt.Fprintf(&svg, `  <rect class="%s" x="%.2f" y="%.2f" width="2" height="11" fill="%s"/>`+"\n",
			class, x, top-2, svgInk)
	}
	tick("zero", out.ZeroLeft)
	tick("max", out.MaxLeft)
	tick("actual-tick", out.ActualLeft)

	labels := cli.LabelsFor(in.Balance, in.Credit, currency)
	label := func(x, y float64, weight, text string) {
		fmt.Fprintf(&svg, `  <text x="%.2f" y="%.2f" font-family="%s" font-size="%.0f" font-weight="%s" fill="%s" text-anchor="middle">`,
			x+1, y, svgFont, svgFontSize, weight, svgInk)
		_ = xml.EscapeText(&svg, []byte(text))
		svg.WriteString("</text>\n")
	}
	label(out.MaxLeft, top-10, "normal", labels.Credit)
	label(out.ZeroLeft, top+24, "normal", labels.Zero)
	label(out.ActualLeft, top+40, "bold", labels.Balance)

	svg.WriteString("</svg>\n")
	return svg.Bytes()
}
