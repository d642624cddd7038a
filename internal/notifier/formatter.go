package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"StockPulse/internal/model"
)

// FormatPriceUpdate renders one price-loop message for a ticker.
func FormatPriceUpdate(snap *model.PriceSnapshot, sig *model.TickerSignal, flow *model.OptionsFlow) string {
	var b strings.Builder

	dot := "🟢"
	if sig.Direction == model.DirectionDown {
		dot = "🔴"
	}
	b.WriteString(fmt.Sprintf("%s **%s** %.2f (%+.2f)", dot, snap.Symbol, snap.Last, snap.Change))

	if sig.Spike != nil {
		b.WriteString(fmt.Sprintf(" • Vol spike %.1f×", sig.Spike.Ratio))
	}
	if snap.HasEMA() {
		arrow := "↓"
		if sig.Trend == model.TrendUp {
			arrow = "↑"
		}
		b.WriteString(fmt.Sprintf(" • EMA9/21: %.2f/%.2f %s", snap.EMA9, snap.EMA21, arrow))
	}
	if snap.VWAP > 0 {
		b.WriteString(fmt.Sprintf(" • VWAP: %.2f", snap.VWAP))
	}
	if flow != nil {
		b.WriteString(fmt.Sprintf(" • Opts flow C/P: %.0f/%.0f", flow.CallVolume, flow.PutVolume))
	}

	return b.String()
}

// NewsEmbed builds the embed posted for one headline.
func NewsEmbed(h model.Headline) *discordgo.MessageEmbed {
	ts := h.PublishedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return &discordgo.MessageEmbed{
		Title:       h.Title,
		URL:         h.URL,
		Description: strings.Join(h.Tickers, ", "),
		Timestamp:   ts.UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Alpha Vantage News"},
	}
}

// FormatFlowReport renders the reply for an on-demand options-flow request.
func FormatFlowReport(flow *model.OptionsFlow) string {
	if flow == nil {
		return "No options flow data available."
	}
	return fmt.Sprintf("📊 **%s** options flow — calls %.0f / puts %.0f (P/C %.2f, %d contracts)",
		flow.Symbol, flow.CallVolume, flow.PutVolume, flow.PutCallRatio(), flow.Contracts)
}

// FormatQuotaStatus renders the reply for a quota query.
func FormatQuotaStatus(remaining, limit int) string {
	if limit <= 0 {
		return "API quota: unlimited"
	}
	return fmt.Sprintf("API quota: %d/%d requests remaining today", remaining, limit)
}

// FormatHelp lists available commands.
func FormatHelp() string {
	var b strings.Builder
	b.WriteString("Available commands:\n")
	b.WriteString("• `!price` — post a price update now\n")
	b.WriteString("• `!news` — post fresh headlines now\n")
	b.WriteString("• `!flow SYMBOL` — options flow for one symbol\n")
	b.WriteString("• `!quota` — remaining API budget\n")
	b.WriteString("• `!help` — this message")
	return b.String()
}
