package main

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorYellow = lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#F1C40F"}
	colorRed    = lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F5F"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	okStyle      = lipgloss.NewStyle().Foreground(colorGreen)
	warnStyle    = lipgloss.NewStyle().Foreground(colorYellow)
	errStyle     = lipgloss.NewStyle().Foreground(colorRed)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	previewStyle = lipgloss.NewStyle().Foreground(colorDim).PaddingLeft(3)
)
