package app

import "github.com/charmbracelet/lipgloss"

var (
	paneStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	popupStyle    = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Padding(0, 1)
	previewPane   = paneStyle.BorderForeground(lipgloss.Color("62"))
	dangerPopup   = popupStyle.BorderForeground(lipgloss.Color("203"))
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	titleStyle    = lipgloss.NewStyle().Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	branchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true)
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Underline(true)
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	previewHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("62"))
	buttonStyle   = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("250"))
	activeButton  = buttonStyle.Foreground(lipgloss.Color("231")).Background(lipgloss.Color("62")).Bold(true)
)
