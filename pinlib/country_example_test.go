package pinlib_test

import (
	"fmt"

	"github.com/damgoweb/pinmap/pinlib"
)

func ExampleLookupCountry() {
	details := pinlib.LookupCountry("Japan")

	fmt.Println(details.Alpha2Code)
	fmt.Println(details.Alpha3Code)
	// output:
	// JP
	// JPN
}

func ExampleLookupCountry_unknown() {
	fmt.Println(pinlib.LookupCountry("Atlantis") == nil)
	// output: true
}
