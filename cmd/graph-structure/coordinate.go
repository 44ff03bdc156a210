// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/graph-structure/internal/coordinator"
	"github.com/pdiddy/graph-structure/internal/platform"
	"github.com/pdiddy/graph-structure/internal/secrets"
	"github.com/pdiddy/graph-structure/pkg/types"
)

var coordinateCmd = &cobra.Command{
	Use:   "coordinate",
	Short: "Run a federated structure discovery through the task platform",
	Long: `Coordinate asks every participant's node for its structure report
through the task platform, waits until all nodes have finished, and merges
the reports. Nodes that fail are left out of the merge. Interrupt with
Ctrl-C to stop waiting.`,
	Example: `  graph-structure coordinate --platform http://hub:8080 --out merged.json
  graph-structure coordinate --participants hospital-a,hospital-b --sort`,
	RunE: runCoordinate,
}

func runCoordinate(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"platform.url":                    "platform",
		"platform.api_key":                "api-key",
		"coordinator.poll_interval":       "poll-interval",
		"coordinator.sort_by_participant": "sort",
		"coordinator.participants":        "participants",
	})
	if err != nil {
		return err
	}
	httpCfg, err := httpConfig(cmd, "platform", defaultTimeout)
	if err != nil {
		return err
	}

	pcfg := types.PlatformConfig{
		HTTPConfig: httpCfg,
		URL:        viper.GetString("platform.url"),
		APIKey:     loadedSecrets.Or(viper.GetString("platform.api_key"), secrets.PlatformAPIKey),
	}
	if pcfg.URL == "" {
		return fmt.Errorf("--platform is required")
	}

	ccfg := types.CoordinatorConfig{
		PollInterval:      viper.GetDuration("coordinator.poll_interval"),
		SortByParticipant: viper.GetBool("coordinator.sort_by_participant"),
		Participants:      viper.GetStringSlice("coordinator.participants"),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg, err := coordinator.Run(ctx, platform.NewHTTPClient(pcfg), ccfg, os.Stderr)
	if err != nil {
		return err
	}
	return output(cmd, agg)
}

func init() {
	coordinateCmd.Flags().String("platform", "http://localhost:8080", "task platform base URL")
	coordinateCmd.Flags().String("api-key", "", "platform API key (default from .secrets/platform-api-key)")
	coordinateCmd.Flags().Duration("poll-interval", coordinator.DefaultPollInterval, "delay between completion checks")
	coordinateCmd.Flags().Bool("sort", false, "fold reports in participant order instead of arrival order")
	coordinateCmd.Flags().StringSlice("participants", nil, "restrict the task to these participant IDs")
	addHTTPFlags(coordinateCmd.Flags(), defaultTimeout)
	addOutputFlags(coordinateCmd)

	rootCmd.AddCommand(coordinateCmd)
}
