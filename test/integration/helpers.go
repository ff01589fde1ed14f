//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestConfig holds configuration for integration tests
type TestConfig struct {
	BaseURL   string
	SwapiPath string
	Verbose   bool
}

// LoadTestConfig loads configuration from environment variables
func LoadTestConfig() *TestConfig {
	return &TestConfig{
		BaseURL:   os.Getenv("SWAPI_INTEGRATION_BASE_URL"),
		SwapiPath: getSwapiPath(),
		Verbose:   os.Getenv("SWAPI_VERBOSE") == "true",
	}
}

// getSwapiPath determines the path to the swapi binary
func getSwapiPath() string {
	if path := os.Getenv("SWAPI_BINARY_PATH"); path != "" {
		return path
	}

	candidates := []string{
		"../../swapi",
		"./swapi",
		"../swapi",
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}

	return "swapi"
}

// SkipIfMissingConfig skips test if required config is missing
func (config *TestConfig) SkipIfMissingConfig(t *testing.T) {
	t.Helper()

	if config.BaseURL == "" {
		t.Skip("SWAPI_INTEGRATION_BASE_URL not set, skipping integration test")
	}

	if _, err := exec.LookPath(config.SwapiPath); err != nil {
		t.Skipf("swapi binary not found at %s, skipping integration test", config.SwapiPath)
	}
}

// CommandRunner runs the swapi binary against the configured API with an
// isolated config file.
type CommandRunner struct {
	config     *TestConfig
	configFile string
	t          *testing.T
}

// NewCommandRunner creates a new command runner
func NewCommandRunner(config *TestConfig, t *testing.T) *CommandRunner {
	t.Helper()

	configFile := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(configFile, nil, 0o600); err != nil {
		t.Fatalf("failed to create config file: %v", err)
	}

	return &CommandRunner{
		config:     config,
		configFile: configFile,
		t:          t,
	}
}

func (runner *CommandRunner) args(args []string) []string {
	return append([]string{"--config", runner.configFile, "--base-url", runner.config.BaseURL}, args...)
}

// Run executes a swapi command and returns output
func (runner *CommandRunner) Run(args ...string) (stdout, stderr string, err error) {
	cmd := exec.Command(runner.config.SwapiPath, runner.args(args)...)

	var stdoutBuf, stderrBuf bytes.Buffer
	cmd.Stdout = &stdoutBuf
	cmd.Stderr = &stderrBuf

	if runner.config.Verbose {
		runner.t.Logf("Running: %s %s", runner.config.SwapiPath, strings.Join(args, " "))
	}

	err = cmd.Run()
	stdout = stdoutBuf.String()
	stderr = stderrBuf.String()

	if runner.config.Verbose && err != nil {
		runner.t.Logf("Command failed: %v\nStdout: %s\nStderr: %s", err, stdout, stderr)
	}

	return stdout, stderr, err
}

// StartServer starts "swapi serve" on a free port and returns its URL. The
// process is interrupted when the test ends.
func (runner *CommandRunner) StartServer(args ...string) string {
	runner.t.Helper()

	port := freePort(runner.t)

	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, runner.config.SwapiPath,
		runner.args(append([]string{"--port", fmt.Sprint(port), "serve"}, args...))...)
	cmd.Cancel = func() error { return cmd.Process.Signal(os.Interrupt) }

	var console bytes.Buffer
	cmd.Stdout = &console
	cmd.Stderr = &console

	if err := cmd.Start(); err != nil {
		cancel()
		runner.t.Fatalf("failed to start server: %v", err)
	}

	runner.t.Cleanup(func() {
		cancel()
		_ = cmd.Wait()

		if runner.config.Verbose {
			runner.t.Logf("Server console:\n%s", console.String())
		}
	})

	url := fmt.Sprintf("http://127.0.0.1:%d", port)

	WaitForCondition(runner.t, func() bool {
		_, err := GetStats(url)

		return err == nil
	}, 10*time.Second, "server to accept connections")

	return url
}

// Stats mirrors the /stats response.
type Stats struct {
	APICalls  int64    `json:"api_calls"`
	CacheSize int      `json:"cache_size"`
	DataSize  int64    `json:"data_size"`
	Errors    int64    `json:"errors"`
	Debug     bool     `json:"debug"`
	Timeout   *float64 `json:"timeout"`
}

// GetStats reads /stats from a running server.
func GetStats(url string) (*Stats, error) {
	resp, err := http.Get(url + "/stats") // #nosec G107
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	var stats Stats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func freePort(t *testing.T) int {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find a free port: %v", err)
	}
	defer func() { _ = listener.Close() }()

	return listener.Addr().(*net.TCPAddr).Port
}

// WaitForCondition waits for a condition to be met with timeout
func WaitForCondition(t *testing.T, condition func() bool, timeout time.Duration, message string) {
	t.Helper()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	timeoutChan := time.After(timeout)

	for {
		select {
		case <-ticker.C:
			if condition() {
				return
			}
		case <-timeoutChan:
			t.Fatalf("Timeout waiting for condition: %s", message)
		}
	}
}

// AssertJSONOutput verifies command output is valid JSON
func AssertJSONOutput(t *testing.T, output string) {
	t.Helper()

	if !json.Valid([]byte(strings.TrimSpace(output))) {
		t.Errorf("Output does not appear to be JSON: %s", output)
	}
}
