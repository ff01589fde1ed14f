// Package report prints console summaries of API resources.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/swapi/internal/constants"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// Format selects how reports are rendered.
type Format string

// Supported formats.
const (
	FormatText  Format = constants.FormatText
	FormatTable Format = constants.FormatTable
	FormatJSON  Format = constants.FormatJSON
	FormatYAML  Format = constants.FormatYAML
	FormatAuto  Format = constants.FormatAuto
)

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatText:
		return FormatText, nil
	case FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatAuto:
		return FormatAuto, nil
	default:
		return "", fmt.Errorf("%w: %q (expected text, table, json, yaml or auto)", swapi.ErrInvalidOutputFormat, name)
	}
}

// ResolveFormat turns auto into table when out is a terminal and text
// otherwise. Other formats are returned unchanged.
func ResolveFormat(format Format, out io.Writer) Format {
	if format != FormatAuto {
		return format
	}

	if file, ok := out.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		return FormatTable
	}

	return FormatText
}

// Printer writes reports to out and error lines to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
	format Format
}

// NewPrinter creates a printer. Auto is resolved against out once.
func NewPrinter(out, errOut io.Writer, format Format) *Printer {
	return &Printer{
		out:    out,
		errOut: errOut,
		format: ResolveFormat(format, out),
	}
}

// Format returns the effective format.
func (p *Printer) Format() Format {
	return p.format
}

// Character prints a person.
func (p *Printer) Character(person *swapi.Person) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		return p.encode(person)
	case FormatTable:
		table := p.propertyTable()
		appendRow(table, "Character", person.Name)
		appendRow(table, "Height", person.Height)
		appendRow(table, "Mass", person.Mass)
		appendRow(table, "Birthday", person.BirthYear)

		if len(person.Films) > 0 {
			appendRow(table, "Films", strconv.Itoa(len(person.Films)))
		}

		return renderTable(table)
	default:
		p.line("Character:", person.Name)
		p.line("Height:", person.Height)
		p.line("Mass:", person.Mass)
		p.line("Birthday:", person.BirthYear)

		if len(person.Films) > 0 {
			p.printf("Appears in %d films\n", len(person.Films))
		}

		return nil
	}
}

// Starships prints the total count and the first few ships of a page.
func (p *Printer) Starships(page *swapi.Page[swapi.Starship]) error {
	ships := TopStarships(page.Results)

	switch p.format {
	case FormatJSON, FormatYAML:
		return p.encode(struct {
			Count     int              `json:"count"     yaml:"count"`
			Starships []swapi.Starship `json:"starships" yaml:"starships"`
		}{Count: page.Count, Starships: ships})
	case FormatTable:
		p.printf("\nTotal Starships: %d\n", page.Count)

		table := tablewriter.NewWriter(p.out)
		table.Header("#", "Name", "Model", "Manufacturer", "Cost", "Speed", "Hyperdrive", "Pilots")

		for i, ship := range ships {
			pilots := ""
			if len(ship.Pilots) > 0 {
				pilots = strconv.Itoa(len(ship.Pilots))
			}

			_ = table.Append(strconv.Itoa(i+1), ship.Name, ship.Model, ship.Manufacturer,
				StarshipCost(ship.CostInCredits), ship.MaxAtmospheringSpeed, ship.HyperdriveRating, pilots)
		}

		return renderTable(table)
	default:
		p.printf("\nTotal Starships: %d\n", page.Count)

		for i, ship := range ships {
			p.printf("\nStarship %d:\n", i+1)
			p.line("Name:", ship.Name)
			p.line("Model:", ship.Model)
			p.line("Manufacturer:", ship.Manufacturer)
			p.line("Cost:", StarshipCost(ship.CostInCredits))
			p.line("Speed:", ship.MaxAtmospheringSpeed)
			p.line("Hyperdrive Rating:", ship.HyperdriveRating)

			if len(ship.Pilots) > 0 {
				p.printf("Pilots: %d\n", len(ship.Pilots))
			}
		}

		return nil
	}
}

// LargePlanets prints the planets of a page that pass IsLargePlanet, in
// page order.
func (p *Printer) LargePlanets(page *swapi.Page[swapi.Planet]) error {
	planets := FilterLargePlanets(page.Results)

	switch p.format {
	case FormatJSON, FormatYAML:
		return p.encode(planets)
	case FormatTable:
		p.printf("\nLarge populated planets:\n")

		table := tablewriter.NewWriter(p.out)
		table.Header("Name", "Population", "Diameter", "Climate", "Films")

		for _, planet := range planets {
			films := ""
			if len(planet.Films) > 0 {
				films = strconv.Itoa(len(planet.Films))
			}

			_ = table.Append(planet.Name, planet.Population, planet.Diameter, planet.Climate, films)
		}

		return renderTable(table)
	default:
		p.printf("\nLarge populated planets:\n")

		for _, planet := range planets {
			p.printf("%s - Pop: %s - Diameter: %s - Climate: %s\n",
				planet.Name, planet.Population, planet.Diameter, planet.Climate)

			if len(planet.Films) > 0 {
				p.printf("  Appears in %d films\n", len(planet.Films))
			}
		}

		return nil
	}
}

// Films prints films in the order given; sorting is the caller's job.
func (p *Printer) Films(films []swapi.Film) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		return p.encode(films)
	case FormatTable:
		p.printf("\nStar Wars Films in chronological order:\n")

		table := tablewriter.NewWriter(p.out)
		table.Header("#", "Title", "Released", "Director", "Producer", "Characters", "Planets")

		for i, film := range films {
			_ = table.Append(strconv.Itoa(i+1), film.Title, film.ReleaseDate, film.Director, film.Producer,
				strconv.Itoa(len(film.Characters)), strconv.Itoa(len(film.Planets)))
		}

		return renderTable(table)
	default:
		p.printf("\nStar Wars Films in chronological order:\n")

		for i, film := range films {
			p.printf("%d. %s (%s)\n", i+1, film.Title, film.ReleaseDate)
			p.printf("   Director: %s\n", film.Director)
			p.printf("   Producer: %s\n", film.Producer)
			p.printf("   Characters: %d\n", len(film.Characters))
			p.printf("   Planets: %d\n", len(film.Planets))
		}

		return nil
	}
}

// Vehicle prints a single vehicle. Unlike starships, the cost is always
// suffixed with "credits", even when the API reports "unknown".
func (p *Printer) Vehicle(vehicle *swapi.Vehicle) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		return p.encode(vehicle)
	case FormatTable:
		p.printf("\nFeatured Vehicle:\n")

		table := p.propertyTable()
		appendRow(table, "Name", vehicle.Name)
		appendRow(table, "Model", vehicle.Model)
		appendRow(table, "Manufacturer", vehicle.Manufacturer)
		appendRow(table, "Cost", vehicleCost(vehicle.CostInCredits))
		appendRow(table, "Length", vehicle.Length)
		appendRow(table, "Crew Required", vehicle.Crew)
		appendRow(table, "Passengers", vehicle.Passengers)

		return renderTable(table)
	default:
		p.printf("\nFeatured Vehicle:\n")
		p.line("Name:", vehicle.Name)
		p.line("Model:", vehicle.Model)
		p.line("Manufacturer:", vehicle.Manufacturer)
		p.line("Cost:", vehicleCost(vehicle.CostInCredits))
		p.line("Length:", vehicle.Length)
		p.line("Crew Required:", vehicle.Crew)
		p.line("Passengers:", vehicle.Passengers)

		return nil
	}
}

// Stats prints the aggregate counters.
func (p *Printer) Stats(stats swapi.Stats) error {
	switch p.format {
	case FormatJSON, FormatYAML:
		return p.encode(stats)
	case FormatTable:
		p.printf("\nStats:\n")

		table := p.propertyTable()
		_ = table.Append("API Calls", strconv.FormatInt(stats.APICalls, 10))
		_ = table.Append("Cache Size", strconv.Itoa(stats.CacheSize))
		_ = table.Append("Total Data Size", strconv.FormatInt(stats.DataSize, 10)+" bytes")
		_ = table.Append("Error Count", strconv.FormatInt(stats.Errors, 10))

		return renderTable(table)
	default:
		p.printf("\nStats:\n")
		p.printf("API Calls: %d\n", stats.APICalls)
		p.printf("Cache Size: %d\n", stats.CacheSize)
		p.printf("Total Data Size: %d bytes\n", stats.DataSize)
		p.printf("Error Count: %d\n", stats.Errors)

		return nil
	}
}

// Message prints a plain line regardless of format.
func (p *Printer) Message(msg string) {
	_, _ = fmt.Fprintln(p.out, msg)
}

// Error prints "<prefix> <err>" on the error stream.
func (p *Printer) Error(prefix string, err error) {
	_, _ = fmt.Fprintf(p.errOut, "%s %v\n", prefix, err)
}

// line prints "label value", skipping absent values.
func (p *Printer) line(label, value string) {
	if value == "" {
		return
	}

	_, _ = fmt.Fprintf(p.out, "%s %s\n", label, value)
}

func (p *Printer) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

func (p *Printer) encode(value interface{}) error {
	if p.format == FormatYAML {
		encoder := yaml.NewEncoder(p.out)

		err := encoder.Encode(value)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}

		return encoder.Close()
	}

	encoder := json.NewEncoder(p.out)
	encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

	err := encoder.Encode(value)
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}

	return nil
}

func (p *Printer) propertyTable() *tablewriter.Table {
	table := tablewriter.NewWriter(p.out)
	table.Header("Property", "Value")

	return table
}

// appendRow adds a property row, skipping absent values.
func appendRow(table *tablewriter.Table, property, value string) {
	if value == "" {
		return
	}

	_ = table.Append(property, value)
}

func renderTable(table *tablewriter.Table) error {
	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
