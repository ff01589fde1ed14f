package commands_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/swapi/cmd/swapi/commands"
)

const (
	personJSON    = `{"name":"Luke Skywalker","height":"172","mass":"77","birth_year":"19BBY","films":["1","2"]}`
	starshipsJSON = `{"count":36,"results":[{"name":"CR90 corvette","cost_in_credits":"3500000"}]}`
	planetsJSON   = `{"count":60,"results":[{"name":"Coruscant","population":"1000000000000","diameter":"12240"}]}`
	filmsJSON     = `{"count":2,"results":[` +
		`{"title":"The Empire Strikes Back","release_date":"1980-05-17"},` +
		`{"title":"A New Hope","release_date":"1977-05-25"}]}`
	vehicleJSON = `{"name":"Sand Crawler","cost_in_credits":"150000"}`
)

// findSubcommand finds a subcommand by name within a cobra command.
func findSubcommand(cmd *cobra.Command, name string) *cobra.Command {
	for _, c := range cmd.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// fakeAPI serves canned documents under /api/, keyed by the endpoint.
type fakeAPI struct {
	server *httptest.Server
	hits   atomic.Int64

	mu     sync.Mutex
	status map[string]int
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	bodies := map[string]string{
		"people/1":          personJSON,
		"people/5":          personJSON,
		"starships/?page=1": starshipsJSON,
		"planets/?page=1":   planetsJSON,
		"films/":            filmsJSON,
		"vehicles/5":        vehicleJSON,
	}

	api := &fakeAPI{status: map[string]int{}}
	api.server = httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		api.hits.Add(1)

		key := request.URL.RequestURI()[len("/api/"):]

		api.mu.Lock()
		status := api.status[key]
		api.mu.Unlock()

		if status != 0 {
			writer.WriteHeader(status)

			return
		}

		body, ok := bodies[key]
		if !ok {
			http.NotFound(writer, request)

			return
		}

		_, _ = writer.Write([]byte(body))
	}))
	t.Cleanup(api.server.Close)

	return api
}

func (a *fakeAPI) failWith(endpoint string, status int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.status[endpoint] = status
}

func (a *fakeAPI) baseURL() string {
	return a.server.URL + "/api/"
}

// emptyConfig writes an empty config file so tests never read the user's.
func emptyConfig(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	return path
}

// execute runs the full command tree with a fresh viper instance.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer

	rootCmd := commands.NewRootCommand(viper.New(), "1.2.3", "abc123", "2026-01-01")
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.ExecuteContext(t.Context())

	return stdout.String(), stderr.String(), err
}
