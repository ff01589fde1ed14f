// Package sequence runs the fixed five-stage fetch-and-report sequence.
package sequence

import (
	"context"
	"encoding/json"
	"sort"
	"sync/atomic"
	"time"

	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/internal/report"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// Fetcher is the part of swapi.Client the sequence needs.
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (json.RawMessage, error)
	CacheSize(ctx context.Context) int
}

// Counters receives the aggregate counters of every run.
type Counters interface {
	IncAPICalls()
	AddDataSize(n int)
	RecordError(kind string)
	APICalls() int64
	DataSize() int64
	Errors() int64
}

// Controller owns the sequence cursor. Runs may overlap; the cursor is
// only advanced by a successful vehicle stage.
type Controller struct {
	fetcher  Fetcher
	counters Counters
	printer  *report.Printer
	logger   swapi.Logger
	debug    bool

	lastID atomic.Int64
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger swapi.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithDebug enables the start line and the trailing stats block.
func WithDebug(debug bool) Option {
	return func(c *Controller) {
		c.debug = debug
	}
}

// WithStartID moves the cursor, mostly for tests.
func WithStartID(id int) Option {
	return func(c *Controller) {
		c.lastID.Store(int64(id))
	}
}

// NewController creates a controller with the cursor at 1.
func NewController(fetcher Fetcher, counters Counters, printer *report.Printer, opts ...Option) *Controller {
	controller := &Controller{
		fetcher:  fetcher,
		counters: counters,
		printer:  printer,
		logger:   swapi.NopLogger{},
	}
	controller.lastID.Store(constants.FirstCursorID)

	for _, opt := range opts {
		opt(controller)
	}

	return controller
}

// LastID returns the current cursor.
func (c *Controller) LastID() int {
	return int(c.lastID.Load())
}

// SetLastID moves the cursor.
func (c *Controller) SetLastID(id int) {
	c.lastID.Store(int64(id))
}

// Stats snapshots the counters and the cache size.
func (c *Controller) Stats(ctx context.Context) swapi.Stats {
	return swapi.Stats{
		APICalls:  c.counters.APICalls(),
		CacheSize: c.fetcher.CacheSize(ctx),
		DataSize:  c.counters.DataSize(),
		Errors:    c.counters.Errors(),
	}
}

// Run executes one sequence. A failure in stages one to four stops the
// run, prints "Error: <err>" and is returned. A vehicle failure is printed
// and counted but does not fail the run.
func (c *Controller) Run(ctx context.Context) error {
	if c.debug {
		c.printer.Message("Starting data fetch...")
	}

	c.counters.IncAPICalls()

	id := c.LastID()

	err := c.runMain(ctx, id)
	if err != nil {
		c.printer.Error("Error:", err)
		c.counters.RecordError(swapi.ErrorKindSequence)
	} else {
		c.runVehicle(ctx, id)
	}

	if c.debug {
		printErr := c.printer.Stats(c.Stats(ctx))
		if printErr != nil {
			c.logger.Warn("Failed to print stats", map[string]interface{}{"error": printErr.Error()})
		}
	}

	return err
}

func (c *Controller) runMain(ctx context.Context, id int) error {
	person, err := stage[swapi.Person](ctx, c, swapi.PersonEndpoint(id))
	if err != nil {
		return err
	}

	err = c.printer.Character(person)
	if err != nil {
		return err
	}

	starships, err := stage[swapi.Page[swapi.Starship]](ctx, c, swapi.EndpointStarshipsFirstPage)
	if err != nil {
		return err
	}

	err = c.printer.Starships(starships)
	if err != nil {
		return err
	}

	planets, err := stage[swapi.Page[swapi.Planet]](ctx, c, swapi.EndpointPlanetsFirstPage)
	if err != nil {
		return err
	}

	err = c.printer.LargePlanets(planets)
	if err != nil {
		return err
	}

	films, err := stage[swapi.Page[swapi.Film]](ctx, c, swapi.EndpointFilms)
	if err != nil {
		return err
	}

	return c.printer.Films(SortFilmsByReleaseDate(films.Results))
}

// runVehicle fetches vehicles/{id} once the cursor is past the first few
// ids. Only a success advances the cursor.
func (c *Controller) runVehicle(ctx context.Context, id int) {
	if id <= constants.VehicleStageMinID {
		return
	}

	vehicle, err := stage[swapi.Vehicle](ctx, c, swapi.VehicleEndpoint(id))
	if err == nil {
		err = c.printer.Vehicle(vehicle)
	}

	if err != nil {
		c.printer.Error("Failed to fetch vehicle:", err)
		c.counters.RecordError(swapi.ErrorKindSequence)

		return
	}

	next := c.lastID.Add(1)
	c.logger.Debug("Sequence cursor advanced", map[string]interface{}{"last_id": next})
}

// stage fetches endpoint, adds its size to the data total and decodes it.
func stage[T any](ctx context.Context, c *Controller, endpoint string) (*T, error) {
	data, err := c.fetcher.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	c.counters.AddDataSize(len(data))

	// A shape mismatch is counted once, at the sequence boundary.
	return swapi.Decode[T](endpoint, data)
}

// SortFilmsByReleaseDate returns films ordered by release date, oldest
// first. Equal dates keep their order and unparsable dates go last.
func SortFilmsByReleaseDate(films []swapi.Film) []swapi.Film {
	type datedFilm struct {
		film  swapi.Film
		date  time.Time
		valid bool
	}

	dated := make([]datedFilm, len(films))
	for i, film := range films {
		date, err := time.Parse(constants.ReleaseDateLayout, film.ReleaseDate)
		dated[i] = datedFilm{film: film, date: date, valid: err == nil}
	}

	sort.SliceStable(dated, func(a, b int) bool {
		if dated[a].valid && dated[b].valid {
			return dated[a].date.Before(dated[b].date)
		}

		return dated[a].valid && !dated[b].valid
	})

	sorted := make([]swapi.Film, len(dated))
	for i, entry := range dated {
		sorted[i] = entry.film
	}

	return sorted
}
