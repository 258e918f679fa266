package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, ":3000", cfg.Addr)

	names := make([]string, 0, len(cfg.Agents))
	for _, a := range cfg.Agents {
		names = append(names, a.Name)
	}
	assert.Contains(t, names, "llama-3.3-70b-versatile")
	assert.Contains(t, names, "openai/gpt-oss-120b")
	assert.Contains(t, names, "openai/gpt-oss-20b")
	assert.Contains(t, names, "first-legal")
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draughts.yaml")
	data := `
addr: ":8080"
selection:
  timeout: 5s
agents:
  - name: greedy
    kind: lua
    script: ./greedy.lua
  - name: bot
    kind: remote
    endpoint: ws://127.0.0.1:9000/choose
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.Selection.Timeout)
	require.Len(t, cfg.Agents, 2)
	assert.Equal(t, AgentLua, cfg.Agents[0].Kind)
	assert.Equal(t, "ws://127.0.0.1:9000/choose", cfg.Agents[1].Endpoint)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	env := map[string]string{
		"DRAUGHTS_ADDR":          ":9999",
		"DRAUGHTS_ALLOW_ORIGINS": "http://a,http://b",
		"DRAUGHTS_LOG_DEV":       "true",
		"GROQ_API_KEY":           "secret",
	}
	applyEnv(&cfg, func(k string) string { return env[k] })

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.AllowOrigins)
	assert.True(t, cfg.Log.Development)
	for _, a := range cfg.Agents {
		if a.Kind == AgentLLM {
			assert.Equal(t, "secret", a.APIKey, a.Name)
		} else {
			assert.Empty(t, a.APIKey, a.Name)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]Config{
		"no agents":      {Addr: ":1"},
		"unnamed agent":  {Addr: ":1", Agents: []Agent{{Kind: AgentFirst}}},
		"duplicate name": {Addr: ":1", Agents: []Agent{{Name: "a", Kind: AgentFirst}, {Name: "a", Kind: AgentFirst}}},
		"llm no model":   {Addr: ":1", Agents: []Agent{{Name: "a", Kind: AgentLLM, Endpoint: "http://x"}}},
		"remote no url":  {Addr: ":1", Agents: []Agent{{Name: "a", Kind: AgentRemote}}},
		"unknown kind":   {Addr: ":1", Agents: []Agent{{Name: "a", Kind: "oracle"}}},
		"empty addr":     {Agents: []Agent{{Name: "a", Kind: AgentFirst}}},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, cfg.Validate())
		})
	}
}
