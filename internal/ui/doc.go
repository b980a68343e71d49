// Package ui holds the color themes and lipgloss styles shared by the CLI
// presentation code.
package ui
