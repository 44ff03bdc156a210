package main

import (
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPConfig_Timeouts(t *testing.T) {
	t.Cleanup(viper.Reset)

	tests := []struct {
		name    string
		prefix  string
		def     time.Duration
		flag    string
		want    time.Duration
		wantUse string
	}{
		{name: "hub waits for extraction", prefix: "hub", def: defaultNodeTimeout, want: 10 * time.Minute, wantUse: "10m0s"},
		{name: "coordinator", prefix: "platform", def: defaultTimeout, want: 30 * time.Second, wantUse: "30s"},
		{name: "flag wins", prefix: "hub", def: defaultNodeTimeout, flag: "45s", want: 45 * time.Second, wantUse: "10m0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			cmd := &cobra.Command{Use: "test"}
			addHTTPFlags(cmd.Flags(), tt.def)
			if tt.flag != "" {
				require.NoError(t, cmd.Flags().Set("timeout", tt.flag))
			}

			cfg, err := httpConfig(cmd, tt.prefix, tt.def)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Timeout)
			assert.Equal(t, "graph-structure/"+version, cfg.UserAgent)
			assert.Contains(t, cmd.Flags().Lookup("timeout").Usage, tt.wantUse)
		})
	}
}
