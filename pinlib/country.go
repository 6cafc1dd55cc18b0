package pinlib

import (
	"strings"

	"github.com/pariz/gountries"
)

var countryQuery = gountries.New()

// LookupCountry returns ISO3166 details for the country name as IP
// geolocation collaborators report it ("Japan", "United States"). It
// returns nil if name is unknown.
func LookupCountry(name string) *CountryDetails {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	country, err := countryQuery.FindCountryByName(name)
	if err != nil {
		return nil
	}

	return &CountryDetails{
		Alpha2Code:   country.Alpha2,
		Alpha3Code:   country.Alpha3,
		CommonName:   country.Name.Common,
		OfficialName: country.Name.Official,
	}
}
