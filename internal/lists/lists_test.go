package lists

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padasch/french-nfi-dashboard/internal/model"
)

func writeList(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func testFiles(t *testing.T) Files {
	t.Helper()
	dir := t.TempDir()
	return Files{
		model.GroupSpecies:          writeList(t, dir, "species.txt", "All Species\nFagus sylvatica\r\nQuercus robur\n\n"),
		model.GroupTreeHeight:       writeList(t, dir, "treesizes.txt", "All Tree Heights\n0-10m\n10-15m\n"),
		model.GroupGreaterEcoregion: writeList(t, dir, "ecoregions.txt", "All Greater Ecoregions\nA\nB\nC\n"),
		model.GroupRegion:           writeList(t, dir, "regions.txt", "All Regions\n11\n24\n"),
	}
}

func TestLoad(t *testing.T) {
	l, err := Load(testFiles(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"All Species", "Fagus sylvatica", "Quercus robur"}, l.Values(model.GroupSpecies))
	assert.Equal(t, "All Tree Heights", l.First(model.GroupTreeHeight))
	assert.Equal(t, "24", l.Last(model.GroupRegion))
	assert.Equal(t, 4, l.Len(model.GroupGreaterEcoregion))
	assert.True(t, l.Contains(model.GroupSpecies, "Fagus sylvatica"))
	assert.False(t, l.Contains(model.GroupRegion, "Fagus sylvatica"))
}

func TestLoadMissingFile(t *testing.T) {
	files := testFiles(t)
	files[model.GroupRegion] = filepath.Join(t.TempDir(), "nope.txt")

	_, err := Load(files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Administrative Region")
}

func TestLoadEmptyList(t *testing.T) {
	files := testFiles(t)
	files[model.GroupTreeHeight] = writeList(t, t.TempDir(), "empty.txt", "\n\n")

	_, err := Load(files)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list is empty")
}

func TestKindsOf(t *testing.T) {
	l, err := FromValues(map[model.GroupKind][]string{
		model.GroupSpecies:          {"All Species", "Abies alba"},
		model.GroupTreeHeight:       {"All Tree Heights", "A"},
		model.GroupGreaterEcoregion: {"All Greater Ecoregions", "A"},
		model.GroupRegion:           {"All Regions", "11"},
	})
	require.NoError(t, err)

	assert.Equal(t, []model.GroupKind{model.GroupTreeHeight, model.GroupGreaterEcoregion}, l.KindsOf("A"))
	assert.Empty(t, l.KindsOf("Picea abies"))
}

func TestLoadRejectsSeparatorInValue(t *testing.T) {
	files := testFiles(t)
	files[model.GroupSpecies] = writeList(t, t.TempDir(), "species.txt", "All Species\nFagus sylvatica\nQuercus petraea/robur\n")

	_, err := Load(files)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrInvalidSelection)
	assert.Contains(t, err.Error(), "species.txt: line 3")
	assert.Contains(t, err.Error(), "Quercus petraea/robur")
}

func TestFromValuesRejectsBackslash(t *testing.T) {
	_, err := FromValues(map[model.GroupKind][]string{
		model.GroupSpecies:          {"All Species"},
		model.GroupTreeHeight:       {"All Tree Heights"},
		model.GroupGreaterEcoregion: {"All Greater Ecoregions", `A\B`},
		model.GroupRegion:           {"All Regions"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Greater Ecoregion: line 2")
}

func TestLoadKeepsDottedValues(t *testing.T) {
	files := testFiles(t)
	files[model.GroupSpecies] = writeList(t, t.TempDir(), "species.txt", "All Species\nSalix sp..\n")

	l, err := Load(files)
	require.NoError(t, err)
	assert.True(t, l.Contains(model.GroupSpecies, "Salix sp.."))
}
