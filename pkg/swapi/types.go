package swapi

// Page represents a paginated list response.
type Page[T any] struct {
	Count    int     `json:"count"    yaml:"count"`
	Next     *string `json:"next"     yaml:"next"`
	Previous *string `json:"previous" yaml:"previous"`
	Results  []T     `json:"results"  yaml:"results"`
}

// Person represents a character from /people.
type Person struct {
	Name      string   `json:"name"                 yaml:"name"`
	Height    string   `json:"height,omitempty"     yaml:"height,omitempty"`
	Mass      string   `json:"mass,omitempty"       yaml:"mass,omitempty"`
	BirthYear string   `json:"birth_year,omitempty" yaml:"birth_year,omitempty"`
	Films     []string `json:"films,omitempty"      yaml:"films,omitempty"`
	URL       string   `json:"url,omitempty"        yaml:"url,omitempty"`
}

// Starship represents an entry from /starships.
type Starship struct {
	Name                 string   `json:"name"                             yaml:"name"`
	Model                string   `json:"model,omitempty"                  yaml:"model,omitempty"`
	Manufacturer         string   `json:"manufacturer,omitempty"           yaml:"manufacturer,omitempty"`
	CostInCredits        string   `json:"cost_in_credits,omitempty"        yaml:"cost_in_credits,omitempty"`
	MaxAtmospheringSpeed string   `json:"max_atmosphering_speed,omitempty" yaml:"max_atmosphering_speed,omitempty"`
	HyperdriveRating     string   `json:"hyperdrive_rating,omitempty"      yaml:"hyperdrive_rating,omitempty"`
	Pilots               []string `json:"pilots,omitempty"                 yaml:"pilots,omitempty"`
	URL                  string   `json:"url,omitempty"                    yaml:"url,omitempty"`
}

// Planet represents an entry from /planets. Population and diameter are
// strings on the wire and may hold "unknown".
type Planet struct {
	Name       string   `json:"name"                 yaml:"name"`
	Population string   `json:"population,omitempty" yaml:"population,omitempty"`
	Diameter   string   `json:"diameter,omitempty"   yaml:"diameter,omitempty"`
	Climate    string   `json:"climate,omitempty"    yaml:"climate,omitempty"`
	Films      []string `json:"films,omitempty"      yaml:"films,omitempty"`
	URL        string   `json:"url,omitempty"        yaml:"url,omitempty"`
}

// Film represents an entry from /films.
type Film struct {
	Title       string   `json:"title"                  yaml:"title"`
	EpisodeID   int      `json:"episode_id,omitempty"   yaml:"episode_id,omitempty"`
	ReleaseDate string   `json:"release_date,omitempty" yaml:"release_date,omitempty"`
	Director    string   `json:"director,omitempty"     yaml:"director,omitempty"`
	Producer    string   `json:"producer,omitempty"     yaml:"producer,omitempty"`
	Characters  []string `json:"characters"             yaml:"characters"`
	Planets     []string `json:"planets"                yaml:"planets"`
	URL         string   `json:"url,omitempty"          yaml:"url,omitempty"`
}

// Vehicle represents a single vehicle from /vehicles.
type Vehicle struct {
	Name          string `json:"name"                      yaml:"name"`
	Model         string `json:"model,omitempty"           yaml:"model,omitempty"`
	Manufacturer  string `json:"manufacturer,omitempty"    yaml:"manufacturer,omitempty"`
	CostInCredits string `json:"cost_in_credits,omitempty" yaml:"cost_in_credits,omitempty"`
	Length        string `json:"length,omitempty"          yaml:"length,omitempty"`
	Crew          string `json:"crew,omitempty"            yaml:"crew,omitempty"`
	Passengers    string `json:"passengers,omitempty"      yaml:"passengers,omitempty"`
	URL           string `json:"url,omitempty"             yaml:"url,omitempty"`
}
