package formatting

import (
	"agentplug/internal/api"
	"agentplug/internal/hooks"
	"agentplug/internal/registry"
)

// pluginsView is the structured form of a plugin listing.
type pluginsView struct {
	Plugins  []api.PluginInfo `json:"plugins"`
	Shadowed []shadowedView   `json:"shadowed,omitempty"`
}

type shadowedView struct {
	ID   string `json:"id"`
	Dir  string `json:"dir"`
	Root string `json:"root"`
	By   string `json:"shadowed_by"`
}

func shadowedViews(shadowed []registry.Shadowed) []shadowedView {
	if len(shadowed) == 0 {
		return nil
	}
	views := make([]shadowedView, 0, len(shadowed))
	for _, s := range shadowed {
		views = append(views, shadowedView{ID: s.ID, Dir: s.Dir, Root: s.Root.Dir, By: s.By.Dir})
	}
	return views
}

type dispatchView struct {
	ID             string                 `json:"id"`
	ExtensionPoint string                 `json:"extension_point"`
	Snapshot       uint64                 `json:"snapshot"`
	Invoked        []string               `json:"invoked"`
	Failures       []string               `json:"failures,omitempty"`
	DurationMillis int64                  `json:"duration_ms"`
	Context        map[string]interface{} `json:"context"`
}

func newDispatchView(result *hooks.DispatchResult, data map[string]interface{}) dispatchView {
	view := dispatchView{
		ID:             result.ID,
		ExtensionPoint: result.Point,
		Snapshot:       result.Version,
		Invoked:        result.Invoked,
		DurationMillis: result.Duration.Milliseconds(),
		Context:        data,
	}
	if view.Invoked == nil {
		view.Invoked = []string{}
	}
	for _, f := range result.Failures {
		view.Failures = append(view.Failures, f.Error())
	}
	return view
}
