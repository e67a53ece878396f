package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agentplug/internal/api"
	"agentplug/internal/catalog"
	"agentplug/internal/registry"
	"agentplug/internal/testing/fixtures/plugins"
)

func TestRender(t *testing.T) {
	dirs := plugins.Roots(t, "plugins")
	plugins.Write(t, dirs[0], plugins.Plugin{ID: "text_editor", Files: map[string]string{
		"prompts/agent.system.tool.text_editor.md": "Read up to {{ .default_line_count }} lines. {{ .path | upper }}",
	}})
	r := NewRenderer(catalog.NewStore(registry.NewRoots(dirs...)))

	out, err := r.Render("text_editor", "agent.system.tool.text_editor", map[string]interface{}{
		"default_line_count": 100,
		"path":               "a.txt",
	})
	require.NoError(t, err)
	assert.Equal(t, "Read up to 100 lines. A.TXT", out)
}

func TestRender_Errors(t *testing.T) {
	dirs := plugins.Roots(t, "plugins")
	plugins.Write(t, dirs[0], plugins.Plugin{ID: "p", Files: map[string]string{
		"prompts/needs.md": "{{ .missing }}",
	}})
	r := NewRenderer(catalog.NewStore(registry.NewRoots(dirs...)))

	_, err := r.Render("p", "absent", nil)
	assert.True(t, api.IsNotFound(err))

	_, err = r.Render("ghost", "needs", nil)
	assert.True(t, api.IsNotFound(err))

	_, err = r.Render("p", "needs.md", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestExecute_SprigFunctions(t *testing.T) {
	out, err := Execute("t", `{{ .items | join ", " }} {{ default "none" .opt }}`, map[string]interface{}{
		"items": []string{"a", "b"},
		"opt":   "",
	})
	require.NoError(t, err)
	assert.Equal(t, "a, b none", out)
}

func TestParseVars(t *testing.T) {
	vars, err := ParseVars([]string{"a=1", "b = two=2"})
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": "1", "b": " two=2"}, vars)

	_, err = ParseVars([]string{"novalue"})
	assert.Error(t, err)
}
