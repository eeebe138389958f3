package model

// DatasetColumn documents one column of the published tree CSV.
type DatasetColumn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DatasetColumns is the documented layout of the tree dataset.
var DatasetColumns = []DatasetColumn{
	{Name: "idp", Description: "Plot identifier"},
	{Name: "tree_id", Description: "Tree identifier within the plot"},
	{Name: "tree_state_1", Description: "Tree state at the first visit"},
	{Name: "tree_state_2", Description: "Tree state at the second visit"},
	{Name: "ba_1", Description: "Basal area at the first visit (m²)"},
	{Name: "ba_2", Description: "Basal area at the second visit (m²)"},
	{Name: "v", Description: "Tree volume (m³)"},
	{Name: "genus_lat", Description: "Genus (Latin)"},
	{Name: "species_lat", Description: "Species (Latin)"},
	{Name: "height_class", Description: "Tree height class"},
	{Name: "circumference_class", Description: "Circumference class at 1.30 m"},
	{Name: "gre", Description: "Greater ecoregion code"},
	{Name: "ser", Description: "Sylvoecoregion code"},
	{Name: "reg", Description: "Administrative region code"},
}

// DatasetColumnNames returns the documented column names in order.
func DatasetColumnNames() []string {
	names := make([]string, len(DatasetColumns))
	for i, c := range DatasetColumns {
		names[i] = c.Name
	}
	return names
}
