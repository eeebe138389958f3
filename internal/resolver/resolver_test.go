package resolver

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padasch/french-nfi-dashboard/internal/lists"
	"github.com/padasch/french-nfi-dashboard/internal/model"
)

func testLists(t *testing.T) *lists.Lists {
	t.Helper()
	l, err := lists.FromValues(map[model.GroupKind][]string{
		model.GroupSpecies:          {"All Species", "Fagus sylvatica", "Quercus robur"},
		model.GroupTreeHeight:       {"All Tree Heights", "0-10m", "10-15m"},
		model.GroupGreaterEcoregion: {"All Greater Ecoregions", "A", "K"},
		model.GroupRegion:           {"All Regions", "11", "94"},
	})
	require.NoError(t, err)
	return l
}

func sel(kind model.GroupKind, value string, metric model.Metric, m model.MapKind) model.Selection {
	return model.Selection{GroupKind: kind, GroupValue: value, Metric: metric, MapKind: m}
}

func TestSpeciesPathMatchesLegacyLayout(t *testing.T) {
	r := New(fstest.MapFS{}, nil)

	res, err := r.Resolve(sel(model.GroupSpecies, "Fagus sylvatica", model.MetricRelative, model.MapHexagon))
	require.NoError(t, err)
	assert.Equal(t, "hex/direct_bs-centered_True_normalized-False-Fagus sylvatica.png", res.Primary.Path)
	assert.Equal(t, "Mortality (relative to 2015) for Fagus sylvatica in Hexagon", res.Caption)
}

func TestOtherKindsUseSubtree(t *testing.T) {
	r := New(fstest.MapFS{}, nil)

	res, err := r.Resolve(sel(model.GroupTreeHeight, "10-15m", model.MetricChange, model.MapDepartment))
	require.NoError(t, err)
	assert.Equal(t, "treeheight/dep/direct_bs-centered_False_normalized-True-10-15m.png", res.Primary.Path)
	assert.Empty(t, res.Companions)
}

func TestEveryCombinationHasTemplate(t *testing.T) {
	r := New(fstest.MapFS{}, nil)
	for _, kind := range model.GroupKinds {
		for _, m := range model.MapKinds {
			for _, metric := range model.Metrics {
				s := sel(kind, "X 1", metric, m)
				first, err := r.Plan(s)
				require.NoError(t, err, "%s/%s/%s", kind, m, metric)
				second, err := r.Plan(s)
				require.NoError(t, err)
				assert.Equal(t, first, second, "paths must be deterministic")
				assert.True(t, strings.HasSuffix(first[0].Path, "-X 1.png"), first[0].Path)
				assert.Contains(t, first[0].Path, m.Code()+"/direct_bs-")
			}
		}
	}
}

func TestAggregatePathsIgnoreMapKind(t *testing.T) {
	want := map[model.Metric]string{
		model.MetricRelativeChange: "all/species/fig-direct_bs-groups_of_most_observations-all_groups_100-bootstraps_centered_normalized.png",
		model.MetricRelative:       "all/species/fig-direct_bs-groups_of_most_observations-all_groups_100-bootstraps_centered.png",
		model.MetricChange:         "all/species/fig-direct_bs-groups_of_most_observations-all_groups_100-bootstraps_normalized.png",
		model.MetricAbsolute:       "all/species/fig-direct_bs-groups_of_most_observations-all_groups_100-bootstraps.png",
	}
	r := New(fstest.MapFS{}, nil)
	for metric, path := range want {
		for _, m := range model.MapKinds {
			res, err := r.Resolve(sel(model.GroupSpecies, "All Species", metric, m))
			require.NoError(t, err)
			assert.Equal(t, path, res.Primary.Path)
		}
	}
}

func TestAggregateAddsDimensionFacets(t *testing.T) {
	r := New(fstest.MapFS{}, nil)

	res, err := r.Resolve(sel(model.GroupSpecies, "All Species", model.MetricAbsolute, model.MapHexagon))
	require.NoError(t, err)
	require.Len(t, res.Companions, 3)

	var secondaries []model.GroupKind
	for _, c := range res.Companions {
		assert.Equal(t, model.FacetDimension, c.Facet.Type)
		secondaries = append(secondaries, c.Facet.Secondary)
	}
	assert.Equal(t, []model.GroupKind{model.GroupTreeHeight, model.GroupGreaterEcoregion, model.GroupRegion}, secondaries)
	assert.Equal(t, "all/species/facets/fig-direct_bs-species_x_treeheight-all_groups_100-bootstraps.png", res.Companions[0].Path)
}

func TestRegionLikeMapAddsRegionFacet(t *testing.T) {
	r := New(fstest.MapFS{}, testLists(t))

	res, err := r.Resolve(sel(model.GroupRegion, "11", model.MetricAbsolute, model.MapGreaterEcoregion))
	require.NoError(t, err)
	assert.Equal(t, "reg/gre/direct_bs-centered_False_normalized-False-11.png", res.Primary.Path)
	require.Len(t, res.Companions, 1)
	assert.Equal(t, model.Facet{Type: model.FacetRegionMap, MapKind: model.MapGreaterEcoregion}, res.Companions[0].Facet)
	assert.Equal(t, "facets/gre/reg/direct_bs-centered_False_normalized-False-11.png", res.Companions[0].Path)

	res, err = r.Resolve(sel(model.GroupRegion, "11", model.MetricAbsolute, model.MapSylvoecoregion))
	require.NoError(t, err)
	assert.Empty(t, res.Companions)
}

func TestNotFoundIsNotAnError(t *testing.T) {
	r := New(fstest.MapFS{}, testLists(t))

	res, err := r.Resolve(sel(model.GroupSpecies, "Quercus robur", model.MetricAbsolute, model.MapRegion))
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotFound, res.Status())
	assert.Equal(t, model.StatusNotFound, res.Companions[0].Status)
}

func TestFoundAssets(t *testing.T) {
	assets := fstest.MapFS{
		"reg/direct_bs-centered_False_normalized-False-Quercus robur.png":                {Data: []byte("png")},
		"facets/reg/species/direct_bs-centered_False_normalized-False-Quercus robur.png": {Data: []byte("png")},
	}
	r := New(assets, testLists(t))

	res, err := r.Resolve(sel(model.GroupSpecies, "Quercus robur", model.MetricAbsolute, model.MapRegion))
	require.NoError(t, err)
	assert.True(t, res.Primary.Found())
	require.Len(t, res.Companions, 1)
	assert.True(t, res.Companions[0].Found())
}

func TestDirectoryIsNotAnAsset(t *testing.T) {
	assets := fstest.MapFS{
		"hex/direct_bs-centered_False_normalized-False-A.png/inner": {Data: []byte("x")},
	}
	r := New(assets, nil)

	res, err := r.Resolve(sel(model.GroupSpecies, "A", model.MetricAbsolute, model.MapHexagon))
	require.NoError(t, err)
	assert.Equal(t, model.StatusNotFound, res.Status())
}

func TestInvalidSelections(t *testing.T) {
	r := New(fstest.MapFS{}, testLists(t))

	cases := []model.Selection{
		sel("genus", "Fagus", model.MetricAbsolute, model.MapHexagon),
		sel(model.GroupSpecies, "", model.MetricAbsolute, model.MapHexagon),
		sel(model.GroupSpecies, "Fagus sylvatica", "median", model.MapHexagon),
		sel(model.GroupSpecies, "Fagus sylvatica", model.MetricAbsolute, "commune"),
		sel(model.GroupSpecies, "Picea abies", model.MetricAbsolute, model.MapHexagon),
		sel(model.GroupSpecies, "10-15m", model.MetricAbsolute, model.MapHexagon),
	}
	for _, c := range cases {
		_, err := r.Resolve(c)
		assert.ErrorIs(t, err, model.ErrInvalidSelection, "%+v", c)
	}
}

func TestPathTraversalRejected(t *testing.T) {
	r := New(fstest.MapFS{}, nil)

	_, err := r.Resolve(sel(model.GroupSpecies, "../../etc/passwd", model.MetricAbsolute, model.MapHexagon))
	assert.ErrorIs(t, err, model.ErrInvalidSelection)
}

func TestDottedValueResolves(t *testing.T) {
	r := New(fstest.MapFS{}, nil)

	res, err := r.Resolve(sel(model.GroupSpecies, "Salix sp..", model.MetricAbsolute, model.MapHexagon))
	require.NoError(t, err)
	assert.Equal(t, "hex/direct_bs-centered_False_normalized-False-Salix sp...png", res.Primary.Path)

	_, err = r.Resolve(sel(model.GroupSpecies, `..\secrets`, model.MetricAbsolute, model.MapHexagon))
	assert.ErrorIs(t, err, model.ErrInvalidSelection)
}

func TestForeignValueNamesOwningKind(t *testing.T) {
	r := New(fstest.MapFS{}, testLists(t))

	_, err := r.Resolve(sel(model.GroupSpecies, "10-15m", model.MetricAbsolute, model.MapHexagon))
	require.ErrorIs(t, err, model.ErrInvalidSelection)
	assert.Contains(t, err.Error(), `"10-15m" is not a Species (listed under Tree Height)`)

	_, err = r.Resolve(sel(model.GroupSpecies, "Picea abies", model.MetricAbsolute, model.MapHexagon))
	require.ErrorIs(t, err, model.ErrInvalidSelection)
	assert.NotContains(t, err.Error(), "listed under")
}

func TestFirstAndLastEntriesResolve(t *testing.T) {
	l := testLists(t)
	r := New(fstest.MapFS{}, l)

	for _, kind := range model.GroupKinds {
		for _, value := range []string{l.First(kind), l.Last(kind)} {
			res, err := r.Resolve(sel(kind, value, model.MetricAbsolute, model.MapHexagon))
			require.NoError(t, err, "%s %q", kind, value)
			assert.NotEmpty(t, res.Primary.Path)
			assert.True(t, strings.HasSuffix(res.Primary.Path, ".png"))
		}
	}
}
