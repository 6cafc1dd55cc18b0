package providers

const (
	// Identifier for ip-api.com.
	NameIPAPI = "ip_api"

	// Identifier for nominatim.openstreetmap.org.
	NameNominatim = "nominatim"
)
