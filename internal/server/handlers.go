package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fivetwenty-io/swapi/internal/tasks"
	"github.com/fivetwenty-io/swapi/pkg/swapi"
)

//go:embed templates/index.html
var templateFS embed.FS

const (
	indexTemplateName = "index.html"

	apiAcceptedMessage = "Check server console for results"
)

// Sequence is the fetch sequence triggered by /api.
type Sequence interface {
	Run(ctx context.Context) error
	Stats(ctx context.Context) swapi.Stats
}

// Submitter starts background tasks.
type Submitter interface {
	Submit(name string, task tasks.Task) error
}

// StatsResponse is the body of /stats.
type StatsResponse struct {
	APICalls  int64         `json:"api_calls"`
	CacheSize int           `json:"cache_size"`
	DataSize  int64         `json:"data_size"`
	Errors    int64         `json:"errors"`
	Debug     bool          `json:"debug"`
	Timeout   swapi.Timeout `json:"timeout"`
}

type indexData struct {
	APICalls  int64
	CacheSize int
	Errors    int64
	Debug     bool
	Timeout   string
}

type templateRenderer struct {
	templates *template.Template
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

type handlers struct {
	sequence  Sequence
	submitter Submitter
	logger    swapi.Logger
	debug     bool
	timeout   swapi.Timeout
}

// routes accepts any method on the four known URLs. A URL only matches
// when it is exactly one of them, so a query string or trailing slash is
// Not Found.
func (h *handlers) routes() *echo.Echo {
	e := newEcho()
	e.Renderer = &templateRenderer{
		templates: template.Must(template.ParseFS(templateFS, "templates/"+indexTemplateName)),
	}
	e.HTTPErrorHandler = h.errorHandler

	e.Use(requestID())
	e.Use(requestLogger(h.logger))
	e.Use(recovery(h.logger))

	e.Any("/", h.index, exactURL)
	e.Any("/index.html", h.index, exactURL)
	e.Any("/api", h.api, exactURL)
	e.Any("/stats", h.stats, exactURL)
	e.RouteNotFound("/*", h.notFound)

	return e
}

func (h *handlers) index(c echo.Context) error {
	stats := h.sequence.Stats(c.Request().Context())

	return c.Render(http.StatusOK, indexTemplateName, indexData{
		APICalls:  stats.APICalls,
		CacheSize: stats.CacheSize,
		Errors:    stats.Errors,
		Debug:     h.debug,
		Timeout:   h.timeout.String(),
	})
}

// api starts a sequence run and answers before it finishes.
func (h *handlers) api(c echo.Context) error {
	err := h.submitter.Submit("fetch-sequence", h.sequence.Run)
	if err != nil {
		h.logger.Warn("Fetch sequence rejected", map[string]interface{}{
			"request_id": requestIDOf(c),
			"error":      err.Error(),
		})

		return echo.NewHTTPError(http.StatusServiceUnavailable).SetInternal(err)
	}

	return c.String(http.StatusOK, apiAcceptedMessage)
}

func (h *handlers) stats(c echo.Context) error {
	stats := h.sequence.Stats(c.Request().Context())

	return c.JSON(http.StatusOK, StatsResponse{
		APICalls:  stats.APICalls,
		CacheSize: stats.CacheSize,
		DataSize:  stats.DataSize,
		Errors:    stats.Errors,
		Debug:     h.debug,
		Timeout:   h.timeout,
	})
}

func (h *handlers) notFound(echo.Context) error {
	return echo.ErrNotFound
}

// errorHandler answers every failure with its plain-text status line.
func (h *handlers) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.String(code, http.StatusText(code))
	}

	if err != nil {
		h.logger.Warn("Failed to write error response", map[string]interface{}{"error": err.Error()})
	}
}
