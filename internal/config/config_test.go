package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SHIM_UPSTREAM_BASE_URL", "http://memory-embeddings:8000")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.Server.ListenAddr)
	require.Equal(t, 4, cfg.Server.BodyLimitMB)
	require.Equal(t, 30*time.Second, cfg.Upstream.RequestTimeout)
	require.Equal(t, "bge-m3", cfg.Upstream.DefaultModel)
	require.Equal(t, "http://memory-embeddings:8000", cfg.Upstream.BaseURL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SHIM_UPSTREAM_BASE_URL", "http://tei:3000/")
	t.Setenv("SHIM_UPSTREAM_REQUEST_TIMEOUT", "5s")
	t.Setenv("SHIM_UPSTREAM_DEFAULT_MODEL", "bge-large-en")
	t.Setenv("SHIM_SERVER_LISTEN_ADDR", ":9090")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.Server.ListenAddr)
	require.Equal(t, 5*time.Second, cfg.Upstream.RequestTimeout)
	require.Equal(t, "bge-large-en", cfg.Upstream.DefaultModel)
	// Trailing slash is stripped so the adapter can join paths cleanly.
	require.Equal(t, "http://tei:3000", cfg.Upstream.BaseURL)
}

func TestLoadLegacyBGEURL(t *testing.T) {
	t.Setenv("SHIM_UPSTREAM_BASE_URL", "")
	t.Setenv("BGE_URL", "http://legacy-host:8000")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	require.Equal(t, "http://legacy-host:8000", cfg.Upstream.BaseURL)
}

func TestLoadMissingBaseURL(t *testing.T) {
	t.Setenv("SHIM_UPSTREAM_BASE_URL", "")
	t.Setenv("BGE_URL", "")

	cfg, err := Load(Options{})
	require.Error(t, err)
	require.Nil(t, cfg)
	require.Contains(t, err.Error(), "SHIM_UPSTREAM_BASE_URL")
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{
			name: "empty base url",
			cfg: Config{
				Server:   ServerConfig{BodyLimitMB: 4},
				Upstream: UpstreamConfig{RequestTimeout: time.Second},
			},
		},
		{
			name: "zero timeout",
			cfg: Config{
				Server:   ServerConfig{BodyLimitMB: 4},
				Upstream: UpstreamConfig{BaseURL: "http://tei:3000"},
			},
		},
		{
			name: "zero body limit",
			cfg: Config{
				Upstream: UpstreamConfig{BaseURL: "http://tei:3000", RequestTimeout: time.Second},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.cfg.Validate())
		})
	}
}
