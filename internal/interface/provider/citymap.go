package provider

// City id mappings: our database city id -> external provider city id.
// Absence of a mapping means the provider does not cover that city, which
// is expected and yields an empty search result.

var flixbusCityMapping = map[int]string{
	// Czech Republic
	4: "dcf4c5c4-acb4-11e6-9066-549f35045cb0", // Prague
	// United Kingdom
	308: "f6d127be-acb4-11e6-9066-549f35045cb0", // London
}

var blablacarCityMapping = map[int]string{
	// Czech Republic
	4: "prague",
	// United Kingdom
	308: "london",
}

func flixbusCityID(cityID int) (string, bool) {
	id, ok := flixbusCityMapping[cityID]
	return id, ok
}

func blablacarCityID(cityID int) (string, bool) {
	id, ok := blablacarCityMapping[cityID]
	return id, ok
}
