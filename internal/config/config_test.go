package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rpggio/bimtodo/internal/domain/annotation"
	"github.com/rpggio/bimtodo/internal/domain/highlight"
	"github.com/rpggio/bimtodo/internal/geom"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, TransportStdio, cfg.Transport)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, annotation.DefaultGroupPrefix, cfg.Highlight.Prefix)

	styles, err := cfg.Highlight.PriorityStyles()
	require.NoError(t, err)
	require.Equal(t, annotation.DefaultPriorityStyles(), styles)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bimtodo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
transport: http
highlight:
  prefix: site
  colors:
    high: "#aa0000"
camera:
  position: {x: 1, y: 2, z: 3}
  target: {x: 0, y: 1, z: 0}
`), 0o600))

	t.Setenv("BIMTODO_CONFIG_PATH", path)
	t.Setenv("BIMTODO_SERVER_PORT", "9100")
	t.Setenv("BIMTODO_AUTH_TOKEN", "secret")
	t.Setenv("BIMTODO_LOG_PATH", filepath.Join(dir, "server.log"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, TransportHTTP, cfg.Transport)
	require.Equal(t, "secret", cfg.Auth.Token)
	require.Equal(t, "site", cfg.Highlight.Prefix)
	require.Equal(t, filepath.Join(dir, "server.log"), cfg.Log.Path)
	require.Equal(t, geom.Vec3(1, 2, 3), cfg.Camera.Viewpoint().Position)

	styles, err := cfg.Highlight.PriorityStyles()
	require.NoError(t, err)
	require.Equal(t, highlight.Style{Color: 0xaa0000}, styles[annotation.PriorityHigh])
	require.Equal(t, highlight.Style{Color: 0x59bc59}, styles[annotation.PriorityLow])
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("BIMTODO_SERVER_PORT", "not-a-port")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("BIMTODO_SERVER_PORT", "")
	t.Setenv("BIMTODO_TRANSPORT", "carrier-pigeon")
	_, err = Load()
	require.Error(t, err)
}

func TestValidate_BadColor(t *testing.T) {
	cfg := Default()
	cfg.Highlight.Colors.Medium = "blue"
	require.Error(t, cfg.Validate())
}
