package echoapi

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/nsscell/portal/core/report"
)

type reportApi struct {
	svc report.ServiceInterface
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := reportApi{svc: deps.ReportSvc}

	rg := g.Group("/reports", jwt, unitOrAdminMiddleware())
	rg.GET("/stats", api.stats)
	rg.GET("/units", api.unitReports)
	rg.GET("/trends", api.trends)
	rg.GET("/stats/export", api.exportStats)
}

// Handlers

func (api *reportApi) stats(ctx echo.Context) error {
	stats, err := api.svc.OverallStats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing overall stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *reportApi) unitReports(ctx echo.Context) error {
	reports, err := api.svc.UnitReports(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing unit reports")
	}
	if reports == nil {
		reports = []report.UnitReport{}
	}
	return ctx.JSON(http.StatusOK, reports)
}

func (api *reportApi) trends(ctx echo.Context) error {
	months, _ := strconv.Atoi(ctx.QueryParam("months"))

	trends, err := api.svc.MonthlyTrends(ctx.Request().Context(), months)
	if err != nil {
		return errors.Wrap(err, "computing monthly trends")
	}
	if trends == nil {
		trends = []report.MonthlyTrend{}
	}
	return ctx.JSON(http.StatusOK, trends)
}

func (api *reportApi) exportStats(ctx echo.Context) error {
	stats, err := api.svc.OverallStats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing overall stats")
	}

	var buf bytes.Buffer
	if err := report.WriteJSON(&buf, stats); err != nil {
		return errors.Wrap(err, "writing stats JSON")
	}
	filename := report.JSONFilename("stats-" + time.Now().Format("2006-01-02"))
	return sendAttachment(ctx, filename, echo.MIMEApplicationJSON, buf.Bytes())
}
