package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Configuration locations.
const (
	// ConfigDirName is created under the user's home directory.
	ConfigDirName = ".swapi"

	// ConfigFileName is the yaml file read from ConfigDirName.
	ConfigFileName = "config.yml"

	// EnvPrefix prefixes environment overrides, e.g. SWAPI_TIMEOUT.
	EnvPrefix = "SWAPI"

	// MinimumArgumentCount is the argument count of key/value commands.
	MinimumArgumentCount = 2
)

// HTTP and network defaults.
const (
	// DefaultTimeoutMillis is the default per-request abort threshold.
	DefaultTimeoutMillis = 5000

	// DefaultPort is the listen port of the local front-end when PORT is unset.
	DefaultPort = 3000

	// DefaultUserAgent is sent with every outbound request.
	DefaultUserAgent = "swapi-demo/1.0"

	// ShutdownTimeout bounds graceful shutdown of the front-end.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout protects the front-end from slow clients.
	ReadHeaderTimeout = 10 * time.Second
)

// HTTP status codes commonly used.
const (
	// HTTPStatusBadRequest is the first status code treated as a failure.
	HTTPStatusBadRequest = 400
)

// Report limits and thresholds.
const (
	// StarshipDisplayLimit is the number of starships printed per page.
	StarshipDisplayLimit = 3

	// LargePlanetMinPopulation must be exceeded for a planet to qualify as large.
	LargePlanetMinPopulation = 1_000_000_000

	// LargePlanetMinDiameter must be exceeded for a planet to qualify as large.
	LargePlanetMinDiameter = 10_000

	// VehicleStageMinID must be exceeded by the cursor before vehicles are fetched.
	VehicleStageMinID = 4

	// FirstCursorID is the character fetched by the first sequence run.
	FirstCursorID = 1

	// ReleaseDateLayout is the format of film release dates.
	ReleaseDateLayout = "2006-01-02"
)

// Output formats.
const (
	// FormatText prints the plain console lines.
	FormatText = "text"

	// FormatTable renders tables.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatAuto picks table on a terminal and text otherwise.
	FormatAuto = "auto"

	// JSONIndentSize is the number of spaces for JSON indentation.
	JSONIndentSize = 2
)

// Cost sentinel used by the API.
const (
	// CostUnknown is passed through verbatim by the starship report.
	CostUnknown = "unknown"
)
