package main

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/graph-structure/internal/platform"
	"github.com/pdiddy/graph-structure/internal/secrets"
)

var hubCmd = &cobra.Command{
	Use:   "hub",
	Short: "Run a self-hosted task platform",
}

var hubServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Dispatch tasks to participant nodes over HTTP",
	Long: `Serve reads the participant registry (a TOML file of [[participant]]
tables with id, name, and url) and exposes the task platform API:

  GET  /api/participants
  POST /api/tasks
  GET  /api/tasks/:id
  GET  /api/tasks/:id/results

When an API key is configured (--api-key, GRAPH_STRUCTURE_HUB_API_KEY, or
.secrets/hub-api-key) every /api call must carry it as a bearer token.

--timeout bounds each call from the hub to a node, which includes the
node's whole extraction; a node that exceeds it is recorded as failed and
left out of the results. Finished tasks are kept for --retain and then
dropped.`,
	Example: `  graph-structure hub serve --participants participants.toml --listen :8080`,
	RunE:    runHubServe,
}

func runHubServe(cmd *cobra.Command, args []string) error {
	err := bindFlags(cmd, map[string]string{
		"hub.listen":            "listen",
		"hub.participants_file": "participants",
		"hub.api_key":           "api-key",
		"hub.retain":            "retain",
	})
	if err != nil {
		return err
	}
	httpCfg, err := httpConfig(cmd, "hub", defaultNodeTimeout)
	if err != nil {
		return err
	}

	path := viper.GetString("hub.participants_file")
	if path == "" {
		return fmt.Errorf("--participants is required")
	}
	reg, err := platform.LoadRegistry(path)
	if err != nil {
		return err
	}

	hub, err := platform.NewHub(reg.Members(httpCfg), log.Writer())
	if err != nil {
		return err
	}
	hub.SetRetention(viper.GetDuration("hub.retain"))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	apiKey := loadedSecrets.Or(viper.GetString("hub.api_key"), secrets.HubAPIKey)
	if apiKey == "" {
		log.Printf("Warning: no API key configured, the hub API is open")
	}

	addr := viper.GetString("hub.listen")
	log.Printf("Serving %d participants on %s", len(reg.Participants), addr)
	return serve(ctx, addr, platform.NewServer(hub, apiKey).SetupRouter())
}

func init() {
	hubServeCmd.Flags().String("listen", ":8080", "HTTP listen address")
	hubServeCmd.Flags().String("participants", "participants.toml", "participant registry (TOML)")
	hubServeCmd.Flags().String("api-key", "", "bearer token required on API calls")
	hubServeCmd.Flags().Duration("retain", platform.DefaultRetention, "how long finished tasks stay queryable")
	addHTTPFlags(hubServeCmd.Flags(), defaultNodeTimeout)

	hubCmd.AddCommand(hubServeCmd)
	rootCmd.AddCommand(hubCmd)
}
