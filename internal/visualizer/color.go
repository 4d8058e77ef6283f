// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package visualizer

import (
	"github.com/fatih/color"
)

var palette = map[string]*color.Color{
	"red":     color.New(color.FgRed),
	"green":   color.New(color.FgGreen),
	"yellow":  color.New(color.FgYellow),
	"blue":    color.New(color.FgBlue),
	"magenta": color.New(color.FgMagenta),
	"cyan":    color.New(color.FgCyan),
	"bold":    color.New(color.Bold),
	"dim":     color.New(color.Faint),
}

var symbols = map[string]string{
	"arrow":  "→",
	"bullet": "•",
	"branch": "├─",
	"last":   "└─",
	"pipe":   "│ ",
	"space":  "  ",
}

// ColorEnabled reports whether ANSI color output should be used.
func ColorEnabled() bool {
	return !color.NoColor
}

// Colorize returns text with ANSI color if enabled, otherwise plain text.
// Unknown color names leave the text unchanged.
func Colorize(text string, name string) string {
	c, ok := palette[name]
	if !ok {
		return text
	}
	return c.Sprint(text)
}

// Success returns a success indicator.
func Success() string {
	return Colorize("✓", "green")
}

// Warning returns a warning indicator.
func Warning() string {
	return Colorize("!", "yellow")
}

// Error returns an error indicator.
func Error() string {
	return Colorize("✗", "red")
}

// Symbol returns a named drawing symbol, dimmed when colors are on.
func Symbol(name string) string {
	s, ok := symbols[name]
	if !ok {
		return name
	}
	return Colorize(s, "dim")
}

// Status colors a transaction status by outcome.
func Status(status string) string {
	switch status {
	case "success", "SUCCESS", "pending", "PENDING":
		return Colorize(status, "green")
	case "failed", "FAILED", "rejected", "ERROR":
		return Colorize(status, "red")
	default:
		return Colorize(status, "yellow")
	}
}

// DisableColor turns off ANSI output for the rest of the process.
func DisableColor() {
	color.NoColor = true
}
