package report

import (
	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// IsLargePlanet reports whether both population and diameter start with
// an integer that exceeds its threshold. "unknown" and other values with no
// leading digits disqualify the planet.
func IsLargePlanet(planet swapi.Planet) bool {
	population, ok := swapi.LeadingInt(planet.Population)
	if !ok || population <= constants.LargePlanetMinPopulation {
		return false
	}

	diameter, ok := swapi.LeadingInt(planet.Diameter)
	if !ok || diameter <= constants.LargePlanetMinDiameter {
		return false
	}

	return true
}

// FilterLargePlanets keeps the large planets in their original order.
func FilterLargePlanets(planets []swapi.Planet) []swapi.Planet {
	large := make([]swapi.Planet, 0, len(planets))

	for _, planet := range planets {
		if IsLargePlanet(planet) {
			large = append(large, planet)
		}
	}

	return large
}

// TopStarships returns at most the first StarshipDisplayLimit ships.
func TopStarships(ships []swapi.Starship) []swapi.Starship {
	if len(ships) > constants.StarshipDisplayLimit {
		return ships[:constants.StarshipDisplayLimit]
	}

	return ships
}

// StarshipCost passes "unknown" through and suffixes anything else with
// " credits".
func StarshipCost(cost string) string {
	if cost == constants.CostUnknown {
		return cost
	}

	return cost + " credits"
}

func vehicleCost(cost string) string {
	return cost + " credits"
}
