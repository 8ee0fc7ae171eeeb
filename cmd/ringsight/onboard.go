package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ringsight/ringsight/internal/api"
	"github.com/ringsight/ringsight/internal/config"
	"github.com/ringsight/ringsight/internal/logger"
	"github.com/ringsight/ringsight/internal/onboarding"
	"github.com/ringsight/ringsight/internal/tui/onboardwizard"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create a new tenant through the onboarding wizard",
	Long: `Run the five-step tenant onboarding wizard.

The wizard collects the company profile, PBX connection details, AI
feature selection, the first admin user and a subscription plan, then
creates the tenant. Nothing is persisted until the final step commits.`,
	RunE: runOnboard,
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w\n\nRun 'ringsight setup' to create one", err)
	}

	client := api.New(cfg.APIURL, cfg.APIToken, time.Duration(cfg.RequestTimeout)*time.Second)

	logger.Info("starting tenant onboarding against %s", cfg.APIURL)
	tenantID, err := onboardwizard.Run(onboarding.DefaultCatalog(), client, client, client)
	if err != nil {
		return err
	}

	fmt.Printf("Tenant created: %s\n", tenantID)
	return nil
}
