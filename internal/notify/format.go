package notify

import (
	"strings"

	"alphawatch/internal/catalog"
)

// Render produces the announcement text for one newly listed entry.
// Pure: missing optional fields simply drop their line, everything else
// renders with empty segments rather than failing.
func Render(e catalog.Entry) string {
	var b strings.Builder

	b.WriteString("🚀 <b>New Token Listed on Binance Alpha!</b>\n\n")

	b.WriteString("<b>Name:</b> ")
	b.WriteString(escapeHTML(e.Name))
	b.WriteString(" (")
	b.WriteString(escapeHTML(e.Symbol))
	b.WriteString(")\n")

	b.WriteString("<b>Token ID:</b> <code>")
	b.WriteString(escapeHTML(e.ID))
	b.WriteString("</code>\n")

	b.WriteString("<b>Price:</b> ")
	b.WriteString(escapeHTML(e.Price))
	b.WriteString("\n")

	b.WriteString("<b>TGE Live:</b> ")
	if e.TGELive {
		b.WriteString("✅ Yes")
	} else {
		b.WriteString("❌ No")
	}
	b.WriteString("\n")

	b.WriteString("<b>Airdrop Active:</b> ")
	if e.AirdropLive {
		b.WriteString("🎁 Yes")
	} else {
		b.WriteString("—")
	}
	b.WriteString("\n")

	if e.ContractAddress != "" {
		b.WriteString("<b>Contract:</b> <code>")
		b.WriteString(escapeHTML(e.ContractAddress))
		b.WriteString("</code>\n")
	}
	if e.ListedAt != "" {
		b.WriteString("<b>Listed:</b> ")
		b.WriteString(escapeHTML(e.ListedAt))
		b.WriteString("\n")
	}

	b.WriteString("\nStay tuned for more updates!")
	return b.String()
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }
