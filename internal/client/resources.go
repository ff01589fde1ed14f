package client

import (
	"context"

	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

// fetchAs fetches endpoint through the cache and decodes it into T. A shape
// mismatch counts as a parse error.
func fetchAs[T any](ctx context.Context, c *Client, endpoint string) (*T, error) {
	data, err := c.Fetch(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	value, err := swapi.Decode[T](endpoint, data)
	if err != nil {
		c.recordError(err)

		return nil, err
	}

	return value, nil
}

type peopleClient struct {
	client *Client
}

// Get implements swapi.PeopleClient.Get.
func (p *peopleClient) Get(ctx context.Context, id int) (*swapi.Person, error) {
	return fetchAs[swapi.Person](ctx, p.client, swapi.PersonEndpoint(id))
}

type starshipsClient struct {
	client *Client
}

// List implements swapi.StarshipsClient.List.
func (s *starshipsClient) List(ctx context.Context, page int) (*swapi.Page[swapi.Starship], error) {
	return fetchAs[swapi.Page[swapi.Starship]](ctx, s.client, swapi.StarshipsPageEndpoint(page))
}

type planetsClient struct {
	client *Client
}

// List implements swapi.PlanetsClient.List.
func (p *planetsClient) List(ctx context.Context, page int) (*swapi.Page[swapi.Planet], error) {
	return fetchAs[swapi.Page[swapi.Planet]](ctx, p.client, swapi.PlanetsPageEndpoint(page))
}

type filmsClient struct {
	client *Client
}

// List implements swapi.FilmsClient.List.
func (f *filmsClient) List(ctx context.Context) (*swapi.Page[swapi.Film], error) {
	return fetchAs[swapi.Page[swapi.Film]](ctx, f.client, swapi.EndpointFilms)
}

type vehiclesClient struct {
	client *Client
}

// Get implements swapi.VehiclesClient.Get.
func (v *vehiclesClient) Get(ctx context.Context, id int) (*swapi.Vehicle, error) {
	return fetchAs[swapi.Vehicle](ctx, v.client, swapi.VehicleEndpoint(id))
}
