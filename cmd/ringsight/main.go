package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/ringsight/ringsight/internal/logger"
	"github.com/ringsight/ringsight/internal/tui/theme"
)

const (
	logoText1 = "█▀█ █ █▄ █ █▀▀ █▀ █ █▀▀ █ █ ▀█▀"
	logoText2 = "█▀▄ █ █ ▀█ █▄█ ▄█ █ █▄█ █▀█  █"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ringsight",
	Short: "Operator CLI for the ringsight call-analytics platform",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	// Set Long description with logo
	rootCmd.Long = renderLogo() + `

ringsight is the operator CLI for the ringsight call-analytics platform.
It onboards new tenants through a full-screen five-step wizard: company
profile, PBX connection, AI feature selection, admin user and plan.`

	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(setupCmd)
}
