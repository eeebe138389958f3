package model

import "fmt"

// Page is one of the navigation targets.
type Page string

const (
	PageHome           Page = "home"
	PageVisualizations Page = "visualizations"
	PageDataset        Page = "dataset"
)

// Pages lists the navigation targets in menu order.
var Pages = []Page{PageHome, PageVisualizations, PageDataset}

var pageTitles = map[Page]string{
	PageHome:           "Homepage",
	PageVisualizations: "Visualizations",
	PageDataset:        "Dataset",
}

// Title returns the navigation label.
func (p Page) Title() string { return pageTitles[p] }

// Stage is the position in the selection flow.
type Stage int

const (
	StageIdle Stage = iota
	StageGroupKindChosen
	StageGroupValueChosen
	StageMetricChosen
	StageMapKindChosen
)

var stageNames = []string{"idle", "group_kind_chosen", "group_value_chosen", "metric_chosen", "map_kind_chosen"}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// ListSource provides the group values offered for a kind.
type ListSource interface {
	First(kind GroupKind) string
}

// ViewState is the per-session state of the dashboard. It is passed
// explicitly with every request and never stored globally.
type ViewState struct {
	Page       Page
	GroupKind  GroupKind
	GroupValue string
	Metric     Metric
	MapKind    MapKind
}

// Stage derives the furthest completed step. Steps are linear: a later
// field counts only when every earlier field is set.
func (v ViewState) Stage() Stage {
	switch {
	case v.GroupKind == "":
		return StageIdle
	case v.GroupValue == "":
		return StageGroupKindChosen
	case v.Metric == "":
		return StageGroupValueChosen
	case v.MapKind == "":
		return StageMetricChosen
	default:
		return StageMapKindChosen
	}
}

// Ready reports whether the state can be resolved.
func (v ViewState) Ready() bool { return v.Stage() == StageMapKindChosen }

// WithGroupKind switches the group kind. A change of kind resets the group
// value to the first entry of the new kind's list so no stale value from
// another kind survives.
func (v ViewState) WithGroupKind(kind GroupKind, lists ListSource) ViewState {
	if kind != v.GroupKind || v.GroupValue == "" {
		v.GroupValue = lists.First(kind)
	}
	v.GroupKind = kind
	return v
}

// WithGroupValue selects a value of the current kind.
func (v ViewState) WithGroupValue(value string) ViewState {
	v.GroupValue = value
	return v
}

// WithMetric selects the metric.
func (v ViewState) WithMetric(m Metric) ViewState {
	v.Metric = m
	return v
}

// WithMapKind selects the map kind.
func (v ViewState) WithMapKind(m MapKind) ViewState {
	v.MapKind = m
	return v
}

// Selection returns the resolver input for a ready state.
func (v ViewState) Selection() (Selection, error) {
	if !v.Ready() {
		return Selection{}, fmt.Errorf("%w: selection incomplete at %s", ErrInvalidSelection, v.Stage())
	}
	sel := Selection{
		GroupKind:  v.GroupKind,
		GroupValue: v.GroupValue,
		Metric:     v.Metric,
		MapKind:    v.MapKind,
	}
	return sel, sel.Validate()
}
