// Copyright © 2026 Vizier Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package render turns builder state plus fetched rows into ECharts option
// JSON for the preview pane. The charting library owns pixels; this package
// only produces its configuration.
package render

// StyleConfig holds the design tokens applied to every generated chart.
type StyleConfig struct {
	ColorPrimary    string
	ColorBackground string
	ColorText       string
	ColorTextMuted  string
	ColorBorder     string
	ColorPalette    []string

	FontFamily      string
	FontSizeTitle   int
	FontSizeLabel   int
	FontSizeTooltip int

	AnimationDuration int
	AnimationEasing   string
}

// DefaultStyleConfig returns the default dark theme.
func DefaultStyleConfig() *StyleConfig {
	return &StyleConfig{
		ColorPrimary:    "#4f7cff",
		ColorBackground: "transparent",
		ColorText:       "#f5f5f5",
		ColorTextMuted:  "#b5b5b5",
		ColorBorder:     "#ffffff1a",
		ColorPalette: []string{
			"#4f7cff", // blue
			"#10b981", // green
			"#f59e0b", // amber
			"#ec4899", // pink
			"#8b5cf6", // purple
			"#14b8a6", // teal
			"#f97316", // orange
		},
		FontFamily:        "Inter, sans-serif",
		FontSizeTitle:     14,
		FontSizeLabel:     11,
		FontSizeTooltip:   12,
		AnimationDuration: 800,
		AnimationEasing:   "cubicOut",
	}
}

// ThemeVariant returns the style for a named theme; unknown names get the
// default.
func ThemeVariant(variant string) *StyleConfig {
	style := DefaultStyleConfig()

	switch variant {
	case "dark":
		return style

	case "light":
		style.ColorBackground = "#ffffff"
		style.ColorText = "#1a1a1a"
		style.ColorTextMuted = "#6b7280"
		style.ColorBorder = "#e5e7eb"
		return style

	case "minimal":
		style.ColorPrimary = "#6b7280"
		style.ColorPalette = []string{
			"#1f2937",
			"#374151",
			"#4b5563",
			"#6b7280",
			"#9ca3af",
		}
		style.AnimationDuration = 400
		return style

	default:
		return style
	}
}

// MergeStyles merges custom over defaults, field by field; zero values in
// custom keep the default.
func MergeStyles(custom, defaults *StyleConfig) *StyleConfig {
	if custom == nil {
		return defaults
	}
	if defaults == nil {
		defaults = DefaultStyleConfig()
	}

	merged := *defaults

	if custom.ColorPrimary != "" {
		merged.ColorPrimary = custom.ColorPrimary
	}
	if custom.ColorBackground != "" {
		merged.ColorBackground = custom.ColorBackground
	}
	if custom.ColorText != "" {
		merged.ColorText = custom.ColorText
	}
	if custom.ColorTextMuted != "" {
		merged.ColorTextMuted = custom.ColorTextMuted
	}
	if custom.ColorBorder != "" {
		merged.ColorBorder = custom.ColorBorder
	}
	if len(custom.ColorPalette) > 0 {
		merged.ColorPalette = custom.ColorPalette
	}
	if custom.FontFamily != "" {
		merged.FontFamily = custom.FontFamily
	}
	if custom.FontSizeTitle > 0 {
		merged.FontSizeTitle = custom.FontSizeTitle
	}
	if custom.FontSizeLabel > 0 {
		merged.FontSizeLabel = custom.FontSizeLabel
	}
	if custom.FontSizeTooltip > 0 {
		merged.FontSizeTooltip = custom.FontSizeTooltip
	}
	if custom.AnimationDuration > 0 {
		merged.AnimationDuration = custom.AnimationDuration
	}
	if custom.AnimationEasing != "" {
		merged.AnimationEasing = custom.AnimationEasing
	}

	return &merged
}
