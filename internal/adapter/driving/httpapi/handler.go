package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"github.com/diillson/maternity-reports-go/internal/shared/types"
	"github.com/diillson/maternity-reports-go/pkg/version"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// TriggerRunner executa uma passagem do gatilho mensal.
type TriggerRunner interface {
	Run(ctx context.Context, req entity.TriggerRequest) entity.TriggerResult
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Handler expõe o gatilho, a geração avulsa e as consultas de relatórios.
type Handler struct {
	trigger   TriggerRunner
	deliverer repository.Deliverer
	reports   repository.ReportRepository
	centers   repository.CenterRepository
	secret    string
	log       logrus.FieldLogger
}

// NewHandler cria o handler HTTP.
func NewHandler(
	trigger TriggerRunner,
	deliverer repository.Deliverer,
	reports repository.ReportRepository,
	centers repository.CenterRepository,
	secret string,
	log logrus.FieldLogger,
) *Handler {
	return &Handler{
		trigger:   trigger,
		deliverer: deliverer,
		reports:   reports,
		centers:   centers,
		secret:    secret,
		log:       log,
	}
}

// RegisterRoutes registra as rotas no servidor echo.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealth)

	api := e.Group("/api")
	api.POST("/cron/monthly-reports", h.handleMonthlyReports, requireSecret(h.secret))
	api.POST("/reports/generate", h.handleGenerate, optionalSecret(h.secret))
	api.GET("/reports", h.handleListReports)
	api.GET("/reports/:id", h.handleGetReport)
	api.GET("/centers", h.handleListCenters)
}

// NewServer monta o echo com os middlewares da aplicação.
func NewServer(h *Handler, log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(recovery(log))
	e.Use(requestID())
	e.Use(requestLogger(log))
	h.RegisterRoutes(e)
	return e
}

func (h *Handler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.FormatVersion(),
	})
}

func (h *Handler) handleMonthlyReports(c echo.Context) error {
	var req entity.TriggerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body", Kind: "validation"})
	}
	if req.Month == "" {
		req.Month = c.QueryParam("month")
	}
	if req.Year == 0 && c.QueryParam("year") != "" {
		year, err := strconv.Atoi(c.QueryParam("year"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "year must be a number", Kind: "validation"})
		}
		req.Year = year
	}
	if len(req.CenterIDs) == 0 && c.QueryParam("centerIds") != "" {
		req.CenterIDs = strings.Split(c.QueryParam("centerIds"), ",")
	}
	req.Source = "cron"

	result := h.trigger.Run(c.Request().Context(), req)
	if !result.Success {
		return c.JSON(statusFor(result.ErrorKind), result)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) handleGenerate(c echo.Context) error {
	var req entity.DeliverRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, entity.DeliverResult{Error: "invalid request body", ErrorKind: "validation"})
	}
	if req.GeneratedBy == "" {
		req.GeneratedBy = "api"
	}

	result := h.deliverer.Deliver(c.Request().Context(), req)
	if !result.Success {
		return c.JSON(statusFor(result.ErrorKind), result)
	}
	return c.JSON(http.StatusCreated, result)
}

func (h *Handler) handleListReports(c echo.Context) error {
	centerID := c.QueryParam("centerId")

	year := 0
	if s := c.QueryParam("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "year must be a number", Kind: "validation"})
		}
		year = y
	}

	month := ""
	if s := c.QueryParam("month"); s != "" {
		m, err := entity.ParseMonth(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: "validation"})
		}
		month = entity.MonthLabel(m)
	}

	items, err := h.reports.FindReports(c.Request().Context(), centerID, month, year)
	if err != nil {
		return h.fail(c, err)
	}
	if items == nil {
		items = []entity.Report{}
	}
	return c.JSON(http.StatusOK, listResponse[entity.Report]{Items: items, Total: len(items)})
}

func (h *Handler) handleGetReport(c echo.Context) error {
	report, err := h.reports.GetReport(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) handleListCenters(c echo.Context) error {
	items, err := h.centers.ListCenters(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	if items == nil {
		items = []entity.Center{}
	}
	return c.JSON(http.StatusOK, listResponse[entity.Center]{Items: items, Total: len(items)})
}

func (h *Handler) fail(c echo.Context, err error) error {
	kind := types.KindOf(err)
	if !errors.Is(err, types.ErrNotFound) {
		h.log.WithError(err).WithField("path", c.Path()).Error("query failed")
	}
	return c.JSON(statusFor(kind), errorResponse{Error: err.Error(), Kind: kind})
}

func statusFor(kind string) int {
	switch kind {
	case "validation":
		return http.StatusBadRequest
	case "not_found":
		return http.StatusNotFound
	case "unauthorized":
		return http.StatusUnauthorized
	default:
		return http.StatusBadGateway
	}
}
