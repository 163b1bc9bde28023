// Package lipgloss provides theme implementations using the Lipgloss styling library.
package lipgloss

import "github.com/lzhao/llmbatch"

// Compile-time interface verification.
var _ llmbatch.Theme = (*Theme)(nil)

// Theme implements llmbatch.Theme with Lipgloss-compatible colors.
type Theme struct {
	styles  llmbatch.Styles
	palette llmbatch.Palette
}

// Styles returns the color styles for this theme.
func (t *Theme) Styles() llmbatch.Styles {
	return t.styles
}

// Palette returns the syntax highlighting palette for this theme.
func (t *Theme) Palette() llmbatch.Palette {
	return t.palette
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
func DarkTheme() *Theme {
	return &Theme{
		styles: llmbatch.Styles{
			Header: llmbatch.ColorPair{
				Foreground: "#f9e2af", // Yellow
				Background: "#313244", // Dark surface
			},
			Success: llmbatch.ColorPair{
				Foreground: "#a6e3a1", // Green
			},
			Error: llmbatch.ColorPair{
				Foreground: "#f38ba8", // Red
			},
			Warning: llmbatch.ColorPair{
				Foreground: "#fab387", // Peach
			},
			Accent: llmbatch.ColorPair{
				Foreground: "#89b4fa", // Blue
			},
			Muted: llmbatch.ColorPair{
				Foreground: "#6c7086", // Muted gray
			},
		},
		palette: llmbatch.Palette{
			// Base colors (Catppuccin Mocha)
			Background: "#1e1e2e",
			Foreground: "#cdd6f4",

			// JSON highlighting colors
			Key:         "#89b4fa",
			String:      "#a6e3a1",
			Number:      "#fab387",
			Constant:    "#cba6f7",
			Punctuation: "#9399b2",

			// UI colors
			UIBackground: "#313244",
			UIForeground: "#a6adc8",
			UIAccent:     "#89b4fa",
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		styles: llmbatch.Styles{
			Header: llmbatch.ColorPair{
				Foreground: "#df8e1d", // Yellow
				Background: "#e6e9ef", // Light surface
			},
			Success: llmbatch.ColorPair{
				Foreground: "#40a02b", // Green
			},
			Error: llmbatch.ColorPair{
				Foreground: "#d20f39", // Red
			},
			Warning: llmbatch.ColorPair{
				Foreground: "#fe640b", // Orange
			},
			Accent: llmbatch.ColorPair{
				Foreground: "#1e66f5", // Blue
			},
			Muted: llmbatch.ColorPair{
				Foreground: "#9ca0b0", // Muted gray
			},
		},
		palette: llmbatch.Palette{
			// Base colors (Catppuccin Latte)
			Background: "#eff1f5",
			Foreground: "#4c4f69",

			// JSON highlighting colors
			Key:         "#1e66f5",
			String:      "#40a02b",
			Number:      "#fe640b",
			Constant:    "#8839ef",
			Punctuation: "#6c6f85",

			// UI colors
			UIBackground: "#e6e9ef",
			UIForeground: "#6c6f85",
			UIAccent:     "#1e66f5",
		},
	}
}
