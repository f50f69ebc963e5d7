package tui

import "github.com/charmbracelet/lipgloss"

var (
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	checkedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3be8c"))

	heroAccentColor        = lipgloss.Color("#2ec4b6")
	heroDepthColor         = lipgloss.Color("#01161e")
	heroTextColor          = lipgloss.Color("#e0fbfc")
	heroSecondaryTextColor = lipgloss.Color("#9ad1d4")

	taglineStyle      = lipgloss.NewStyle().Foreground(heroSecondaryTextColor).Italic(true)
	statusBarStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	busyBarStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDescStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	currentLineStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6"))
	panelStyle        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	panelFocusedStyle = panelStyle.Copy().BorderForeground(heroAccentColor)
	tabStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1)
	tabActiveStyle    = lipgloss.NewStyle().Bold(true).Foreground(heroDepthColor).Background(heroAccentColor).Padding(0, 1)
	noticeBoxStyle    = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 2)

	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(heroTextColor).Background(heroDepthColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#0b3c49"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"██████╗   ███████╗  ██████╗   ██╗   ██╗  ██████╗   ███████╗ ",
		"██╔══██╗  ██╔════╝  ██╔══██╗  ██║   ██║  ██╔══██╗  ██╔════╝ ",
		"██║  ██║  █████╗    ██║  ██║  ██║   ██║  ██████╔╝  █████╗   ",
		"██║  ██║  ██╔══╝    ██║  ██║  ██║   ██║  ██╔═══╝   ██╔══╝   ",
		"██████╔╝  ███████╗  ██████╔╝  ╚██████╔╝  ██║       ███████╗ ",
		"╚═════╝   ╚══════╝  ╚═════╝    ╚═════╝   ╚═╝       ╚══════╝ ",
	}
)

func noticeStyle(level noticeLevel) lipgloss.Style {
	switch level {
	case noticeError:
		return noticeBoxStyle.Copy().BorderForeground(lipgloss.Color("9"))
	case noticeWarning:
		return noticeBoxStyle.Copy().BorderForeground(lipgloss.Color("214"))
	default:
		return noticeBoxStyle.Copy().BorderForeground(heroAccentColor)
	}
}
