// Package swapi provides types, interfaces, and helpers for working with the
// Star Wars API (https://swapi.dev).
//
// # Overview
//
// The swapi package defines the resource types (Person, Starship, Planet,
// Film, Vehicle), the paginated Page wrapper, the resource client interfaces
// and the response Cache abstraction. A concrete client is provided by the
// swapiclient package, which wires configuration, transport, caching and
// counters:
//
//	cli, err := swapiclient.New(ctx, swapi.DefaultConfig())
//	if err != nil { log.Fatal(err) }
//
//	luke, err := cli.People().Get(ctx, 1)
//
// # Caching
//
// Every document fetched through Client.Fetch is kept for the lifetime of
// the process, keyed by its endpoint ("people/1", "starships/?page=1").
// There is no expiry and no eviction. The memory backend is the default; a
// NATS JetStream key-value bucket can be used instead to share the cache
// between processes.
//
// # Errors
//
// Failures are reported as HTTPStatusError, TimeoutError, TransportError or
// ParseError. Helpers such as IsNotFound, IsTimeout and ErrorKind make it
// easy to branch on them.
package swapi
