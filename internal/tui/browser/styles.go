package browser

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	primaryColor    = lipgloss.Color("99")  // Purple
	successColor    = lipgloss.Color("42")  // Green
	warningColor    = lipgloss.Color("226") // Yellow
	errorColor      = lipgloss.Color("196") // Red
	mutedColor      = lipgloss.Color("245") // Gray
	accentColor     = lipgloss.Color("212") // Pink
	backgroundColor = lipgloss.Color("235") // Dark gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			PaddingLeft(2).
			PaddingRight(2)

	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(mutedColor).
			MarginBottom(1)

	// Collection tabs
	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Underline(true).
			Padding(0, 1)

	// Table rows
	columnHeaderStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Bold(true).
				PaddingLeft(2)

	itemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			PaddingRight(2)

	selectedItemStyle = lipgloss.NewStyle().
				PaddingLeft(1).
				PaddingRight(2).
				Foreground(accentColor).
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderLeft(true).
				BorderForeground(primaryColor)

	savedMarkStyle = lipgloss.NewStyle().Foreground(warningColor)

	filterStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			PaddingLeft(2)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(mutedColor).
			MarginTop(1)

	errorBannerStyle = lipgloss.NewStyle().
				Foreground(errorColor).
				Background(lipgloss.Color("52")). // Dark red background
				Bold(true).
				Padding(0, 2).
				MarginBottom(1).
				BorderStyle(lipgloss.ThickBorder()).
				BorderForeground(errorColor)

	infoBannerStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Background(lipgloss.Color("237")).
			Padding(0, 2).
			MarginBottom(1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(primaryColor)

	staleBannerStyle = lipgloss.NewStyle().
				Foreground(warningColor).
				Padding(0, 2).
				MarginBottom(1).
				BorderStyle(lipgloss.NormalBorder()).
				BorderForeground(warningColor)

	// Overlay menus
	menuStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Background(backgroundColor).
			Padding(0, 2)

	menuTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accentColor)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	confirmBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(warningColor).
			Padding(1, 2).
			Width(50).
			Align(lipgloss.Center)

	detailLabelStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Bold(true).
				Width(24)

	detailValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252"))

	successStyle = lipgloss.NewStyle().Foreground(successColor)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			PaddingTop(2).
			PaddingBottom(2).
			PaddingLeft(2)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(primaryColor)
)

// sizedStyles are the width-dependent styles for one terminal width.
type sizedStyles struct {
	item     lipgloss.Style
	selected lipgloss.Style
	header   lipgloss.Style
	footer   lipgloss.Style
}

// stylesFor applies a maximum width to all relevant styles
func stylesFor(width int) sizedStyles {
	return sizedStyles{
		item:     itemStyle.MaxWidth(width - 2),
		selected: selectedItemStyle.MaxWidth(width - 2),
		header:   headerStyle.Width(width - 2),
		footer:   footerStyle.Width(width - 2),
	}
}
