package tui

import "github.com/charmbracelet/lipgloss"

// Theme colors - "Indigo & Slate" Palette
var (
	PrimaryColor   = lipgloss.Color("#6366F1") // Indigo 500
	SecondaryColor = lipgloss.Color("#0EA5E9") // Sky 500
	AccentColor    = lipgloss.Color("#F59E0B") // Amber 500
	SuccessColor   = lipgloss.Color("#10B981") // Emerald 500
	ErrorColor     = lipgloss.Color("#EF4444") // Red 500
	MutedColor     = lipgloss.Color("#64748B") // Slate 500

	BgDark   = lipgloss.Color("#1E293B") // Slate 800
	BgDarker = lipgloss.Color("#020617") // Slate 950

	TextPrimary   = lipgloss.Color("#F8FAFC") // Slate 50
	TextSecondary = lipgloss.Color("#94A3B8") // Slate 400
	TextMuted     = lipgloss.Color("#475569") // Slate 600
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Padding(0, 1).
			MarginBottom(1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextSecondary).
			Background(BgDark).
			Padding(0, 1)

	// Submit button
	ButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextPrimary).
			Background(PrimaryColor).
			Padding(0, 2)

	DisabledButtonStyle = lipgloss.NewStyle().
				Foreground(TextMuted).
				Background(BgDark).
				Padding(0, 2)

	LoadingStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	// Panels
	ErrorPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(ErrorColor).
			Foreground(ErrorColor).
			Padding(0, 1).
			MarginTop(1)

	ErrorLabelStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			Bold(true)

	ResultPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(SuccessColor).
				Padding(0, 1).
				MarginTop(1)

	ResultHeaderStyle = lipgloss.NewStyle().
				Foreground(SuccessColor).
				Bold(true)

	OriginalMsgStyle = lipgloss.NewStyle().
				Foreground(TextSecondary).
				Italic(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			MarginTop(1)

	// Badges - Clean & Flat
	BadgeStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			MarginRight(1)

	IdleBadgeStyle = BadgeStyle.
			Background(TextMuted).
			Foreground(TextPrimary)

	CheckingBadgeStyle = BadgeStyle.
				Background(AccentColor).
				Foreground(BgDarker)

	ResultBadgeStyle = BadgeStyle.
				Background(SuccessColor).
				Foreground(BgDarker)

	ErrorBadgeStyle = BadgeStyle.
			Background(ErrorColor).
			Foreground(TextPrimary)

	// Prediction labels
	SpamLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ErrorColor)

	HamLabelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(SuccessColor)
)
