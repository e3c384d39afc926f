package rest

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/aarondl/opt/null"
	"github.com/labstack/echo/v4"

	"github.com/mpapenbr/stationlog/pkg/importer"
	"github.com/mpapenbr/stationlog/pkg/model"
	"github.com/mpapenbr/stationlog/pkg/service"
)

// Handler maps the facade onto http routes
type Handler struct {
	facade *service.Facade
}

func NewHandler(facade *service.Facade) *Handler {
	return &Handler{facade: facade}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", Health)

	g := e.Group("/v1")
	g.POST("/roster", h.ImportRoster)
	g.GET("/runners", h.ListRunners)
	g.GET("/runners/:bib", h.GetRunner)
	g.PUT("/runners/:bib/dnf", h.SetDNF)
	g.PUT("/runners/:bib/dns", h.SetDNS)

	g.POST("/stations", h.ImportStations)
	g.GET("/stations", h.ListStations)
	g.GET("/stations/:identifier", h.GetStation)
	g.GET("/stations/by-id/:stationId", h.GetStationByID)
	g.POST("/stations/:identifier/activate", h.ActivateStation)
	g.PUT("/stations/:identifier/operator", h.SetOperator)
	g.GET("/event-info", h.GetEventInfo)
	g.GET("/session", h.GetSession)

	g.GET("/events", h.ListEvents)
	g.POST("/events", h.RecordEvent)
	g.GET("/events/:id", h.GetEvent)
	g.POST("/events/sent", h.MarkEventsSent)

	g.GET("/output", h.ListOutput)
	g.GET("/output/:bib", h.GetOutputRow)
	g.POST("/output/rebuild", h.RebuildOutput)

	g.DELETE("/tables/:name", h.ResetTable)
}

func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

type (
	dnfRequest struct {
		Type      string `json:"type"`
		StationID int    `json:"stationId"`
		At        string `json:"at"`
		Override  bool   `json:"override"`
	}
	dnsRequest struct {
		DNS bool `json:"dns"`
	}
	markSentRequest struct {
		IDs []int64 `json:"ids"`
	}
	operatorRequest struct {
		Callsign string `json:"callsign"`
	}
	// eventRequest with stationId 0 records at the active station
	eventRequest struct {
		Bib       int     `json:"bib"`
		StationID int     `json:"stationId"`
		TimeIn    string  `json:"timeIn"`
		TimeOut   string  `json:"timeOut"`
		Note      *string `json:"note"`
	}
)

func invalid[T any](c echo.Context, format string, args ...any) error {
	return respond(c, model.Failed[T](
		fmt.Errorf("%w: "+format, append([]any{model.ErrInvalidFormat}, args...)...)))
}

func bibParam(c echo.Context) (int, error) {
	bib, err := strconv.Atoi(c.Param("bib"))
	if err != nil {
		return 0, fmt.Errorf("%w: bib %q", model.ErrInvalidFormat, c.Param("bib"))
	}
	return bib, nil
}

func boolQuery(c echo.Context, name string) bool {
	v, _ := strconv.ParseBool(c.QueryParam(name))
	return v
}

func (h *Handler) ImportRoster(c echo.Context) error {
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return invalid[int](c, "body: %v", err)
	}
	return respond(c, h.facade.ImportRoster(c.Request().Context(), data))
}

func (h *Handler) ListRunners(c echo.Context) error {
	return respond(c, h.facade.ListRunners(c.Request().Context(), boolQuery(c, "dnfSort")))
}

func (h *Handler) GetRunner(c echo.Context) error {
	bib, err := bibParam(c)
	if err != nil {
		return respond(c, model.Failed[*model.Runner](err))
	}
	return respond(c, h.facade.LookupRunnerByBib(c.Request().Context(), bib))
}

func (h *Handler) SetDNF(c echo.Context) error {
	bib, err := bibParam(c)
	if err != nil {
		return respond(c, model.Failed[*model.Runner](err))
	}
	var req dnfRequest
	if err := c.Bind(&req); err != nil {
		return invalid[*model.Runner](c, "body: %v", err)
	}
	dnfType, err := model.ParseDNFType(req.Type)
	if err != nil {
		return respond(c, model.Failed[*model.Runner](err))
	}
	at, err := importer.ParseTime(req.At)
	if err != nil {
		return respond(c, model.Failed[*model.Runner](err))
	}
	change := model.DNFChange{
		Type:      dnfType,
		StationID: req.StationID,
		Override:  req.Override,
	}
	if v, ok := at.Get(); ok {
		change.At = v
	}
	return respond(c, h.facade.SetDNF(c.Request().Context(), bib, change))
}

func (h *Handler) SetDNS(c echo.Context) error {
	bib, err := bibParam(c)
	if err != nil {
		return respond(c, model.Failed[*model.Runner](err))
	}
	var req dnsRequest
	if err := c.Bind(&req); err != nil {
		return invalid[*model.Runner](c, "body: %v", err)
	}
	return respond(c, h.facade.SetDNS(c.Request().Context(), bib, req.DNS))
}

func (h *Handler) ImportStations(c echo.Context) error {
	policy, err := service.ParseImportPolicy(c.QueryParam("ifLoaded"))
	if err != nil {
		return respond(c, model.Failed[int](err))
	}
	data, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return invalid[int](c, "body: %v", err)
	}
	return respond(c, h.facade.ImportStations(c.Request().Context(), data, policy))
}

func (h *Handler) ListStations(c echo.Context) error {
	return respond(c, h.facade.ListStations(c.Request().Context()))
}

func (h *Handler) GetStation(c echo.Context) error {
	return respond(c, h.facade.GetStationByIdentifier(c.Request().Context(),
		c.Param("identifier")))
}

func (h *Handler) GetStationByID(c echo.Context) error {
	stationID, err := strconv.Atoi(c.Param("stationId"))
	if err != nil {
		return invalid[*model.Station](c, "station id %q", c.Param("stationId"))
	}
	return respond(c, h.facade.GetStationByID(c.Request().Context(), stationID))
}

func (h *Handler) ActivateStation(c echo.Context) error {
	return respond(c, h.facade.ActivateStation(c.Request().Context(), c.Param("identifier")))
}

func (h *Handler) SetOperator(c echo.Context) error {
	var req operatorRequest
	if err := c.Bind(&req); err != nil {
		return invalid[*model.Session](c, "body: %v", err)
	}
	return respond(c, h.facade.SetOperatorIdentity(c.Request().Context(),
		c.Param("identifier"), req.Callsign))
}

func (h *Handler) GetEventInfo(c echo.Context) error {
	return respond(c, h.facade.GetEventInfo(c.Request().Context()))
}

func (h *Handler) GetSession(c echo.Context) error {
	return respond(c, h.facade.CurrentSession(c.Request().Context()))
}

// ListEvents filters with ?unsent=true, ?station= or ?bib= (in that order)
func (h *Handler) ListEvents(c echo.Context) error {
	ctx := c.Request().Context()
	if boolQuery(c, "unsent") {
		return respond(c, h.facade.ListUnsentEvents(ctx))
	}
	if v := c.QueryParam("station"); v != "" {
		stationID, err := strconv.Atoi(v)
		if err != nil {
			return invalid[[]*model.Event](c, "station %q", v)
		}
		return respond(c, h.facade.ListEventsAtStation(ctx, stationID))
	}
	bib := 0
	if v := c.QueryParam("bib"); v != "" {
		var err error
		if bib, err = strconv.Atoi(v); err != nil {
			return invalid[[]*model.Event](c, "bib %q", v)
		}
	}
	return respond(c, h.facade.ListEvents(ctx, bib))
}

func (h *Handler) GetEvent(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return invalid[*model.Event](c, "event id %q", c.Param("id"))
	}
	return respond(c, h.facade.GetEvent(c.Request().Context(), id))
}

func (h *Handler) MarkEventsSent(c echo.Context) error {
	var req markSentRequest
	if err := c.Bind(&req); err != nil {
		return invalid[int](c, "body: %v", err)
	}
	return respond(c, h.facade.MarkEventsSent(c.Request().Context(), req.IDs))
}

func (h *Handler) RecordEvent(c echo.Context) error {
	var req eventRequest
	if err := c.Bind(&req); err != nil {
		return invalid[*model.Event](c, "body: %v", err)
	}
	var times [2]null.Val[time.Time]
	for i, s := range []string{req.TimeIn, req.TimeOut} {
		v, err := importer.ParseTime(s)
		if err != nil {
			return respond(c, model.Failed[*model.Event](err))
		}
		times[i] = v
	}
	note := null.FromPtr(req.Note)
	ctx := c.Request().Context()
	if req.StationID == 0 {
		return respond(c, h.facade.RecordForCurrentStation(ctx, req.Bib, times[0], times[1], note))
	}
	return respond(c, h.facade.RecordEvent(ctx, req.Bib, req.StationID, times[0], times[1], note))
}

func (h *Handler) ListOutput(c echo.Context) error {
	return respond(c, h.facade.ListOutput(c.Request().Context(), boolQuery(c, "dnfSort")))
}

func (h *Handler) GetOutputRow(c echo.Context) error {
	bib, err := bibParam(c)
	if err != nil {
		return respond(c, model.Failed[*model.OutputRow](err))
	}
	return respond(c, h.facade.GetOutputRow(c.Request().Context(), bib))
}

// RebuildOutput rebuilds a single row with ?bib=, all rows otherwise
func (h *Handler) RebuildOutput(c echo.Context) error {
	bib := 0
	if v := c.QueryParam("bib"); v != "" {
		var err error
		if bib, err = strconv.Atoi(v); err != nil || bib <= 0 {
			return invalid[int](c, "bib %q", v)
		}
	}
	return respond(c, h.facade.RebuildOutput(c.Request().Context(), bib))
}

func (h *Handler) ResetTable(c echo.Context) error {
	return respond(c, h.facade.ResetTable(c.Request().Context(), c.Param("name")))
}
