package regions

// defaultRegions maps a country value to its selectable regions. Unknown
// countries resolve to an empty list, never an error.
var defaultRegions = map[string][]string{
	"USA": {
		"Alabama", "Alaska", "Arizona", "Arkansas", "California",
		"Colorado", "Connecticut", "Delaware", "Florida", "Georgia",
	},
	"Canada": {
		"Alberta", "British Columbia", "Manitoba", "New Brunswick",
		"Newfoundland and Labrador", "Nova Scotia", "Ontario",
		"Prince Edward Island", "Quebec", "Saskatchewan",
	},
	"Germany": {
		"Baden-Württemberg", "Bavaria", "Berlin", "Brandenburg",
		"Bremen", "Hamburg", "Hesse", "Lower Saxony",
		"Mecklenburg-Vorpommern", "North Rhine-Westphalia",
	},
	"France": {
		"Auvergne-Rhône-Alpes", "Bourgogne-Franche-Comté", "Brittany",
		"Centre-Val de Loire", "Corsica", "Grand Est",
		"Hauts-de-France", "Île-de-France", "Normandy", "Nouvelle-Aquitaine",
	},
}

// DefaultRegions returns a copy of the built-in country to regions table.
func DefaultRegions() map[string][]string {
	out := make(map[string][]string, len(defaultRegions))
	for country, list := range defaultRegions {
		out[country] = append([]string{}, list...)
	}
	return out
}

// RegionsFor returns the regions of country from the table, or an empty
// slice when the country is unknown.
func RegionsFor(table map[string][]string, country string) []string {
	if list, ok := table[country]; ok {
		return append([]string{}, list...)
	}
	return []string{}
}
