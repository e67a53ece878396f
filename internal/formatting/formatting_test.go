package formatting

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"agentplug/internal/api"
	"agentplug/internal/capability"
	"agentplug/internal/hooks"
	"agentplug/internal/registry"
)

var testPlugins = []api.PluginInfo{
	{ID: "memory", Name: "Memory", Version: "2", Root: "/usr/plugins", Capabilities: 3, SettingsSections: []string{"agent", "project"}},
	{ID: "search", Name: "Search", Version: "1", Root: "/plugins", Capabilities: 0},
}

var testShadowed = []registry.Shadowed{
	{ID: "memory", Dir: "/plugins/memory", Root: registry.Root{Dir: "/plugins", Rank: 1}, By: registry.Root{Dir: "/usr/plugins"}},
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTableFormatter_Plugins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Options{Format: FormatTable}).FormatPlugins(&buf, testPlugins, testShadowed))

	out := buf.String()
	assert.Contains(t, out, "memory")
	assert.Contains(t, out, "agent,project")
	assert.Contains(t, out, "/plugins/memory")
	assert.Contains(t, out, "Total: 2 plugins")
	assert.NotContains(t, out, "\x1b[", "no color codes without Color")
}

func TestTableFormatter_Empty(t *testing.T) {
	f := NewTableFormatter(Options{})

	var buf bytes.Buffer
	require.NoError(t, f.FormatPlugins(&buf, nil, nil))
	assert.Equal(t, "No plugins found\n", buf.String())

	buf.Reset()
	require.NoError(t, f.FormatContributions(&buf, "sidebar-start", nil))
	assert.Equal(t, "No contributions to sidebar-start\n", buf.String())
}

func TestTableFormatter_ConfigSortedAndTruncated(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "abcdef"
	}
	cfg := api.ConfigResponse{
		PluginID: "memory",
		Scope:    "project",
		Path:     "/p/.a0proj/plugins/memory/config.json",
		Config:   map[string]interface{}{"zeta": 1, "alpha": long},
	}

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(Options{}).FormatConfig(&buf, cfg))
	out := buf.String()

	assert.Contains(t, out, "Plugin: memory (scope: project)")
	assert.Contains(t, out, "Source: /p/.a0proj/plugins/memory/config.json")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("alpha")), bytes.Index(buf.Bytes(), []byte("zeta")))
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, long)
}

func TestTableFormatter_Dispatch(t *testing.T) {
	result := &hooks.DispatchResult{
		ID:      "d-1",
		Point:   "agent_init",
		Invoked: []string{"a/extensions/python/agent_init/_10_a.py"},
		Failures: []*api.HookError{
			{Point: "agent_init", PluginID: "b", Path: "extensions/python/agent_init/_20_b.py", Err: errors.New("boom")},
		},
		Duration: 15 * time.Millisecond,
	}

	var buf bytes.Buffer
	require.NoError(t, NewTableFormatter(Options{}).FormatDispatch(&buf, result, map[string]interface{}{"n": 1}))
	out := buf.String()

	assert.Contains(t, out, "_10_a.py")
	assert.Contains(t, out, "Failed: hook extensions/python/agent_init/_20_b.py of plugin b")
	assert.Contains(t, out, "\"n\": 1")
	assert.Contains(t, out, "Dispatch: d-1 in 15ms")
}

func TestJSONFormatter_Plugins(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Options{Format: FormatJSON}).FormatPlugins(&buf, testPlugins, testShadowed))

	var got struct {
		Plugins  []api.PluginInfo `json:"plugins"`
		Shadowed []struct {
			ID string `json:"id"`
			By string `json:"shadowed_by"`
		} `json:"shadowed"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, testPlugins, got.Plugins)
	require.Len(t, got.Shadowed, 1)
	assert.Equal(t, "/usr/plugins", got.Shadowed[0].By)
}

func TestYAMLFormatter_UsesJSONFieldNames(t *testing.T) {
	entries := []capability.Entry{
		{PluginID: "memory", Kind: capability.KindAPI, Path: "api/recall.py", Resolved: "/secret/abs/path"},
	}

	var buf bytes.Buffer
	require.NoError(t, New(Options{Format: FormatYAML}).FormatCapabilities(&buf, "memory", entries))

	var got map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "memory", got["plugin_id"])
	assert.NotContains(t, buf.String(), "/secret/abs/path")
}

func TestYAMLFormatter_KeepsNumbersExact(t *testing.T) {
	cfg := api.ConfigResponse{
		PluginID: "memory",
		Config: map[string]interface{}{
			"id":    json.Number("9007199254740993"),
			"max":   json.Number("18446744073709551615"),
			"ratio": json.Number("0.5"),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, New(Options{Format: FormatYAML}).FormatConfig(&buf, cfg))
	out := buf.String()

	assert.Contains(t, out, "id: 9007199254740993\n")
	assert.Contains(t, out, "max: 18446744073709551615\n")
	assert.Contains(t, out, "ratio: 0.5\n")
}

func TestStructuredFormatter_EmptyListsAreArrays(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(Options{Format: FormatJSON}).FormatContributions(&buf, "chat", nil))
	assert.JSONEq(t, `{"extension_point":"chat","extensions":[]}`, buf.String())
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"name\": \"test\",\n  \"value\": 42\n}", PrettyJSON(map[string]interface{}{"name": "test", "value": 42}))
	assert.Equal(t, "null", PrettyJSON(nil))
	assert.NotEmpty(t, PrettyJSON(make(chan int)))
}
