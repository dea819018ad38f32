package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Asside333/HabitHub/internal/engine"
)

// HabitHub theme (CLI + TUI).
// Kept intentionally small: reusable styles and a few emojis.

const (
	IconQuest    = "🗺️"
	IconSparkle  = "✨"
	IconDone     = "✅"
	IconTrophy   = "🏆"
	IconBolt     = "⚡"
	IconCoin     = "🪙"
	IconFire     = "🔥"
	IconShield   = "🛡️"
	IconChest    = "🎁"
	IconBoss     = "🐉"
	IconBeach    = "🏖️"
	IconBadge    = "🎖️"
	IconRelic    = "🔮"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconScroll   = "📜"
	IconCalendar = "🗓️"
)

var (
	cPrimary = lipgloss.Color("63")  // blue
	cAccent  = lipgloss.Color("205") // magenta
	cGood    = lipgloss.Color("42")  // green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
	cBronze  = lipgloss.Color("172") // bronze
	cSilver  = lipgloss.Color("250") // silver
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Dim   = lipgloss.NewStyle().Foreground(cMuted)

	Bronze = lipgloss.NewStyle().Bold(true).Foreground(cBronze)
	Silver = lipgloss.NewStyle().Bold(true).Foreground(cSilver)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

// TierText renders a daily tier with its color.
func TierText(tier engine.Tier) string {
	switch tier {
	case engine.TierGold:
		return Gold.Render("gold")
	case engine.TierSilver:
		return Silver.Render("silver")
	case engine.TierBronze:
		return Bronze.Render("bronze")
	default:
		return Muted.Render("none")
	}
}

// ReasonText renders an operation reason code.
func ReasonText(reason engine.Reason) string {
	switch reason {
	case engine.ReasonClaimed, engine.ReasonRolledBack:
		return Good.Render(string(reason))
	case engine.ReasonClaimPartial, engine.ReasonCapReached:
		return Warn.Render(string(reason))
	default:
		return Muted.Render(string(reason))
	}
}

// ProgressBar renders a fixed-width XP bar like `[██████····]`.
func ProgressBar(ratio float64, width int) string {
	if width < 2 {
		width = 10
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return "[" + Good.Render(strings.Repeat("█", filled)) + Dim.Render(strings.Repeat("·", width-filled)) + "]"
}
