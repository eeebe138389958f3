package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSelection is returned when a selection falls outside the
// enumerated values offered by the dashboard.
var ErrInvalidSelection = errors.New("invalid selection")

// GroupKind is the taxonomy dimension used to subset trees.
type GroupKind string

const (
	GroupSpecies          GroupKind = "species"
	GroupTreeHeight       GroupKind = "treeheight"
	GroupGreaterEcoregion GroupKind = "gre"
	GroupRegion           GroupKind = "reg"
)

// GroupKinds lists every group kind in selector order.
var GroupKinds = []GroupKind{GroupSpecies, GroupTreeHeight, GroupGreaterEcoregion, GroupRegion}

var groupLabels = map[GroupKind]string{
	GroupSpecies:          "Species",
	GroupTreeHeight:       "Tree Height",
	GroupGreaterEcoregion: "Greater Ecoregion",
	GroupRegion:           "Administrative Region",
}

// Label returns the selector label for the kind.
func (k GroupKind) Label() string { return groupLabels[k] }

// Token is the path segment used for the kind in asset paths.
func (k GroupKind) Token() string { return string(k) }

// Valid reports whether k is one of the enumerated group kinds.
func (k GroupKind) Valid() bool {
	_, ok := groupLabels[k]
	return ok
}

// ParseGroupKind accepts either a code ("species") or a label ("Species").
func ParseGroupKind(s string) (GroupKind, error) {
	for _, k := range GroupKinds {
		if strings.EqualFold(s, string(k)) || s == k.Label() {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown group kind %q", ErrInvalidSelection, s)
}

// MapKind is the spatial aggregation unit of a displayed map.
type MapKind string

const (
	MapHexagon          MapKind = "hex"
	MapGreaterEcoregion MapKind = "gre"
	MapSylvoecoregion   MapKind = "ser"
	MapRegion           MapKind = "reg"
	MapDepartment       MapKind = "dep"
)

// MapKinds lists every map kind in selector order.
var MapKinds = []MapKind{MapHexagon, MapGreaterEcoregion, MapSylvoecoregion, MapRegion, MapDepartment}

var mapLabels = map[MapKind]string{
	MapHexagon:          "Hexagon",
	MapGreaterEcoregion: "Greater Ecoregion",
	MapSylvoecoregion:   "Sylvoecoregion",
	MapRegion:           "Administrative Region",
	MapDepartment:       "Administrative Department",
}

// Label returns the selector label for the map kind.
func (m MapKind) Label() string { return mapLabels[m] }

// Code is the short token used in asset paths.
func (m MapKind) Code() string { return string(m) }

// Valid reports whether m is one of the enumerated map kinds.
func (m MapKind) Valid() bool {
	_, ok := mapLabels[m]
	return ok
}

// RegionLike reports whether maps of this kind get a region overlay figure.
func (m MapKind) RegionLike() bool {
	return m == MapGreaterEcoregion || m == MapRegion
}

// ParseMapKind accepts either a code ("hex") or a label ("Hexagon").
// "Hexmap" is accepted as the legacy label for hexagon maps.
func ParseMapKind(s string) (MapKind, error) {
	if s == "Hexmap" {
		return MapHexagon, nil
	}
	for _, m := range MapKinds {
		if strings.EqualFold(s, string(m)) || s == m.Label() {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown map kind %q", ErrInvalidSelection, s)
}

// MetricVariant selects which precomputed image variant is requested.
type MetricVariant struct {
	Centered   bool
	Normalized bool
}

// Metric is one of the four presentations of the mortality rate.
type Metric string

const (
	MetricAbsolute       Metric = "absolute"
	MetricRelative       Metric = "relative"
	MetricChange         Metric = "change"
	MetricRelativeChange Metric = "relative-change"
)

// Metrics lists every metric in selector order.
var Metrics = []Metric{MetricAbsolute, MetricRelative, MetricChange, MetricRelativeChange}

var metricLabels = map[Metric]string{
	MetricAbsolute:       "Mortality (absolute)",
	MetricRelative:       "Mortality (relative to 2015)",
	MetricChange:         "Change in Mortality since 2015 (absolute)",
	MetricRelativeChange: "Change in Mortality since 2015 (relative to 2015)",
}

var metricVariants = map[Metric]MetricVariant{
	MetricAbsolute:       {Centered: false, Normalized: false},
	MetricRelative:       {Centered: true, Normalized: false},
	MetricChange:         {Centered: false, Normalized: true},
	MetricRelativeChange: {Centered: true, Normalized: true},
}

// Label returns the selector label for the metric.
func (m Metric) Label() string { return metricLabels[m] }

// Variant returns the boolean pair the asset pipeline encodes in file names.
func (m Metric) Variant() MetricVariant { return metricVariants[m] }

// Valid reports whether m is one of the enumerated metrics.
func (m Metric) Valid() bool {
	_, ok := metricLabels[m]
	return ok
}

// ParseMetric accepts either a code ("relative") or a full label.
func ParseMetric(s string) (Metric, error) {
	for _, m := range Metrics {
		if strings.EqualFold(s, string(m)) || s == m.Label() {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown metric %q", ErrInvalidSelection, s)
}

// Selection is one complete set of dashboard choices.
type Selection struct {
	GroupKind  GroupKind `json:"group_kind"`
	GroupValue string    `json:"group_value"`
	Metric     Metric    `json:"metric"`
	MapKind    MapKind   `json:"map_kind"`
}

// Validate checks the enumerated fields. List membership of GroupValue is
// checked by the resolver, which owns the lists.
func (s Selection) Validate() error {
	if !s.GroupKind.Valid() {
		return fmt.Errorf("%w: unknown group kind %q", ErrInvalidSelection, s.GroupKind)
	}
	if strings.TrimSpace(s.GroupValue) == "" {
		return fmt.Errorf("%w: empty group value", ErrInvalidSelection)
	}
	if !s.Metric.Valid() {
		return fmt.Errorf("%w: unknown metric %q", ErrInvalidSelection, s.Metric)
	}
	if !s.MapKind.Valid() {
		return fmt.Errorf("%w: unknown map kind %q", ErrInvalidSelection, s.MapKind)
	}
	return nil
}

// CheckGroupValue rejects values that cannot be embedded in an asset file
// name. Dots are allowed; separators are not.
func CheckGroupValue(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: empty group value", ErrInvalidSelection)
	}
	if strings.ContainsAny(value, "/\\") {
		return fmt.Errorf("%w: group value %q contains path separators", ErrInvalidSelection, value)
	}
	return nil
}

// IsAggregate reports whether a group value is the "All ..." sentinel.
func IsAggregate(value string) bool {
	return strings.HasPrefix(value, "All ")
}

// FacetType classifies the figures belonging to one selection.
type FacetType string

const (
	FacetMain      FacetType = "main"
	FacetDimension FacetType = "dimension"
	FacetRegionMap FacetType = "region_map"
)

// Facet identifies one figure of a resolved selection.
type Facet struct {
	Type FacetType `json:"type"`
	// Secondary is the second dimension for dimension facets.
	Secondary GroupKind `json:"secondary,omitempty"`
	// MapKind is the overlay map for region-map facets.
	MapKind MapKind `json:"map_kind,omitempty"`
}

// String renders the facet as a short label for logs and metrics.
func (f Facet) String() string {
	switch f.Type {
	case FacetDimension:
		return "dimension:" + string(f.Secondary)
	case FacetRegionMap:
		return "region_map:" + string(f.MapKind)
	default:
		return string(FacetMain)
	}
}

// AssetStatus is the outcome of the existence check.
type AssetStatus string

const (
	StatusFound    AssetStatus = "found"
	StatusNotFound AssetStatus = "not_found"
)

// Asset is one pre-rendered image addressed by a selection and facet.
type Asset struct {
	Facet  Facet       `json:"facet"`
	Path   string      `json:"path"`
	Status AssetStatus `json:"status"`
}

// Found reports whether the asset exists in the asset store.
func (a Asset) Found() bool { return a.Status == StatusFound }

// Resolution is the outcome of resolving one selection.
type Resolution struct {
	Selection  Selection `json:"selection"`
	Primary    Asset     `json:"primary"`
	Companions []Asset   `json:"companions,omitempty"`
	Caption    string    `json:"caption"`
}

// Status is the status of the primary figure.
func (r Resolution) Status() AssetStatus { return r.Primary.Status }
