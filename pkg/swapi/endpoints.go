package swapi

import (
	"encoding/json"
	"strconv"
)

// Fixed endpoints used by the fetch sequence.
const (
	EndpointStarshipsFirstPage = "starships/?page=1"
	EndpointPlanetsFirstPage   = "planets/?page=1"
	EndpointFilms              = "films/"
)

// PersonEndpoint returns the endpoint of a single character.
func PersonEndpoint(id int) string {
	return "people/" + strconv.Itoa(id)
}

// VehicleEndpoint returns the endpoint of a single vehicle.
func VehicleEndpoint(id int) string {
	return "vehicles/" + strconv.Itoa(id)
}

// StarshipsPageEndpoint returns the endpoint of a starship list page.
func StarshipsPageEndpoint(page int) string {
	return "starships/?page=" + strconv.Itoa(page)
}

// PlanetsPageEndpoint returns the endpoint of a planet list page.
func PlanetsPageEndpoint(page int) string {
	return "planets/?page=" + strconv.Itoa(page)
}

// Decode unmarshals a cached or freshly fetched document into T. Shape
// mismatches are reported as a ParseError for endpoint.
func Decode[T any](endpoint string, data json.RawMessage) (*T, error) {
	var v T

	err := json.Unmarshal(data, &v)
	if err != nil {
		return nil, &ParseError{Endpoint: endpoint, Err: err}
	}

	return &v, nil
}
