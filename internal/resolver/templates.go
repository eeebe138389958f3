package resolver

import (
	"fmt"
	"path"

	"github.com/padasch/french-nfi-dashboard/internal/model"
)

const (
	bootstrapPrefix = "fig-direct_bs-groups_of_most_observations-all_groups_100-bootstraps"
	facetPrefix     = "fig-direct_bs-%s_x_%s-all_groups_100-bootstraps"
	aggregateDir    = "all"
	facetDir        = "facets"
)

// pathTemplate builds the asset path of a selection's main figure.
type pathTemplate func(sel model.Selection) string

type templateKey struct {
	group   model.GroupKind
	mapKind model.MapKind
}

// templates maps every (group kind, map kind) pair to its path template.
// Species maps live directly under the map directory; every other kind
// gets its own subtree.
var templates = map[templateKey]pathTemplate{
	{model.GroupSpecies, model.MapHexagon}:          mapTemplate(""),
	{model.GroupSpecies, model.MapGreaterEcoregion}: mapTemplate(""),
	{model.GroupSpecies, model.MapSylvoecoregion}:   mapTemplate(""),
	{model.GroupSpecies, model.MapRegion}:           mapTemplate(""),
	{model.GroupSpecies, model.MapDepartment}:       mapTemplate(""),

	{model.GroupTreeHeight, model.MapHexagon}:          mapTemplate(model.GroupTreeHeight.Token()),
	{model.GroupTreeHeight, model.MapGreaterEcoregion}: mapTemplate(model.GroupTreeHeight.Token()),
	{model.GroupTreeHeight, model.MapSylvoecoregion}:   mapTemplate(model.GroupTreeHeight.Token()),
	{model.GroupTreeHeight, model.MapRegion}:           mapTemplate(model.GroupTreeHeight.Token()),
	{model.GroupTreeHeight, model.MapDepartment}:       mapTemplate(model.GroupTreeHeight.Token()),

	{model.GroupGreaterEcoregion, model.MapHexagon}:          mapTemplate(model.GroupGreaterEcoregion.Token()),
	{model.GroupGreaterEcoregion, model.MapGreaterEcoregion}: mapTemplate(model.GroupGreaterEcoregion.Token()),
	{model.GroupGreaterEcoregion, model.MapSylvoecoregion}:   mapTemplate(model.GroupGreaterEcoregion.Token()),
	{model.GroupGreaterEcoregion, model.MapRegion}:           mapTemplate(model.GroupGreaterEcoregion.Token()),
	{model.GroupGreaterEcoregion, model.MapDepartment}:       mapTemplate(model.GroupGreaterEcoregion.Token()),

	{model.GroupRegion, model.MapHexagon}:          mapTemplate(model.GroupRegion.Token()),
	{model.GroupRegion, model.MapGreaterEcoregion}: mapTemplate(model.GroupRegion.Token()),
	{model.GroupRegion, model.MapSylvoecoregion}:   mapTemplate(model.GroupRegion.Token()),
	{model.GroupRegion, model.MapRegion}:           mapTemplate(model.GroupRegion.Token()),
	{model.GroupRegion, model.MapDepartment}:       mapTemplate(model.GroupRegion.Token()),
}

func mapTemplate(subtree string) pathTemplate {
	return func(sel model.Selection) string {
		return path.Join(subtree, sel.MapKind.Code(), variantFile(sel))
	}
}

// variantFile is the per-group file name. Booleans are spelled True/False
// and the group value is kept verbatim, spaces included.
func variantFile(sel model.Selection) string {
	v := sel.Metric.Variant()
	return fmt.Sprintf("direct_bs-centered_%s_normalized-%s-%s.png",
		titleBool(v.Centered), titleBool(v.Normalized), sel.GroupValue)
}

func titleBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// variantSuffix encodes the metric variant on aggregate figures.
func variantSuffix(v model.MetricVariant) string {
	switch {
	case v.Centered && v.Normalized:
		return "_centered_normalized"
	case v.Centered:
		return "_centered"
	case v.Normalized:
		return "_normalized"
	default:
		return ""
	}
}

// aggregatePath is the fixed figure for the "All ..." sentinel. The map
// kind does not take part.
func aggregatePath(sel model.Selection) string {
	return path.Join(aggregateDir, sel.GroupKind.Token(),
		bootstrapPrefix+variantSuffix(sel.Metric.Variant())+".png")
}

// dimensionFacetPath breaks the aggregate figure down by a second dimension.
func dimensionFacetPath(sel model.Selection, other model.GroupKind) string {
	name := fmt.Sprintf(facetPrefix, sel.GroupKind.Token(), other.Token())
	return path.Join(aggregateDir, sel.GroupKind.Token(), facetDir,
		name+variantSuffix(sel.Metric.Variant())+".png")
}

// regionMapPath is the overlay drawn for region-like maps.
func regionMapPath(sel model.Selection) string {
	return path.Join(facetDir, sel.MapKind.Code(), sel.GroupKind.Token(), variantFile(sel))
}
