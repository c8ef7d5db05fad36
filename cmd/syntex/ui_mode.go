package main

import (
	"fmt"
	"os"
	"slices"
	"strings"
)

// uiMode is the --ui setting for the batch progress view.
type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

var uiModes = []uiMode{uiModeAuto, uiModeOn, uiModeOff}

func readUIMode(value string) (uiMode, error) {
	m := uiMode(strings.ToLower(strings.TrimSpace(value)))
	if m == "" {
		return uiModeAuto, nil
	}
	if !slices.Contains(uiModes, m) {
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
	return m, nil
}

// shouldUseTUI: json diagnostics and --emit text own stdout, so neither
// gets a progress view even with --ui on.
func shouldUseTUI(opts expandOptions) bool {
	if opts.format == "json" || opts.emit == "text" {
		return false
	}
	if opts.ui == uiModeAuto {
		return !opts.quiet && isTerminal(os.Stdout)
	}
	return opts.ui == uiModeOn
}
