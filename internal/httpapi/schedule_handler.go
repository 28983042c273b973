// Package httpapi wires the scheduling engine to Gin, grounded on the
// teacher's internal/handler.ScheduleGeneratorHandler (bind → validate →
// call service → response.JSON/response.Error) generalized from the
// teacher's single synchronous DB-backed proposal to a cache-backed one
// a client fetches again later for export.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vishwaksen/campus-scheduler/internal/cache"
	"github.com/vishwaksen/campus-scheduler/internal/catalog"
	"github.com/vishwaksen/campus-scheduler/internal/dto"
	"github.com/vishwaksen/campus-scheduler/internal/engine"
	"github.com/vishwaksen/campus-scheduler/internal/export"
	appErrors "github.com/vishwaksen/campus-scheduler/pkg/errors"
	"github.com/vishwaksen/campus-scheduler/pkg/response"
)

// Defaults bundles the scheduler's configured fallbacks, applied to any
// request field the caller left at its zero value.
type Defaults struct {
	Algorithm            engine.Algorithm
	Timeout              time.Duration
	MaxConsecutiveTheory int
	PeriodsPerDay        int
}

// ScheduleHandler exposes the generate/fetch/export endpoints.
type ScheduleHandler struct {
	validate *validator.Validate
	cache    *cache.ProposalCache
	logger   *zap.Logger
	metrics  *Metrics
	defaults Defaults
}

// NewScheduleHandler constructs a ScheduleHandler. metrics may be nil, in
// which case generation runs simply go unobserved.
func NewScheduleHandler(proposalCache *cache.ProposalCache, logger *zap.Logger, metrics *Metrics, defaults Defaults) *ScheduleHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleHandler{validate: validator.New(), cache: proposalCache, logger: logger, metrics: metrics, defaults: defaults}
}

type generateResponse struct {
	ProposalID string            `json:"proposal_id"`
	Document   export.Document   `json:"document"`
	Statistics engine.Statistics `json:"statistics"`
}

// Generate godoc
// @Summary Generate a conflict-free weekly timetable proposal
// @Tags Scheduler
// @Accept json
// @Produce json
// @Param payload body dto.ScheduleGenerateRequest true "Schedule generation request"
// @Success 200 {object} response.Envelope
// @Router /schedules/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.ScheduleGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid request payload"))
		return
	}
	h.applyDefaults(&req)
	if err := h.validate.Struct(req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "validation failed"))
		return
	}

	engineReq := req.ToEngineRequest()
	start := time.Now()
	result, err := engine.Schedule(c.Request.Context(), engineReq, h.logger)
	if err != nil {
		h.metrics.ObserveGeneration(req.Algorithm, outcomeFor(err), time.Since(start), 0)
		response.Error(c, translateEngineErr(err))
		return
	}
	h.metrics.ObserveGeneration(string(result.Statistics.Algorithm), "success", result.Statistics.Duration, result.Statistics.Attempts)

	proposalID := uuid.NewString()
	doc := export.Build(result.Grid, engineReq.Subjects, buildSections(engineReq), engineReq.Config.Days, engineReq.Config.PeriodsPerDay, export.Metadata{
		Semester:    engineReq.Semester,
		Branch:      engineReq.Branch,
		Sections:    engineReq.Sections,
		GeneratedAt: time.Now().UTC(),
		Algorithm:   string(result.Statistics.Algorithm),
	}, result.Validation)

	if err := h.cache.Put(c.Request.Context(), proposalID, doc); err != nil {
		h.logger.Warn("failed to cache generated proposal", zap.String("proposal_id", proposalID), zap.Error(err))
	}

	response.JSON(c, http.StatusOK, generateResponse{
		ProposalID: proposalID,
		Document:   doc,
		Statistics: result.Statistics,
	}, nil)
}

// Get godoc
// @Summary Fetch a previously generated proposal
// @Tags Scheduler
// @Produce json
// @Param id path string true "Proposal ID"
// @Success 200 {object} response.Envelope
// @Router /schedules/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	doc, err := h.cache.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, translateEngineErr(err))
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}

// Export godoc
// @Summary Export a previously generated proposal as json, csv or html
// @Tags Scheduler
// @Produce json,text/csv,text/html
// @Param id path string true "Proposal ID"
// @Param format query string false "Export format: json, csv or html"
// @Success 200
// @Router /schedules/{id}/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	doc, err := h.cache.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, translateEngineErr(err))
		return
	}

	format := c.DefaultQuery("format", "json")
	switch format {
	case "csv":
		payload, err := export.CSV(doc)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to render csv"))
			return
		}
		c.Data(http.StatusOK, "text/csv", payload)
	case "html":
		payload, err := export.HTML(doc)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to render html"))
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", payload)
	case "json":
		payload, err := export.JSON(doc)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to render json"))
			return
		}
		c.Data(http.StatusOK, "application/json", payload)
	default:
		response.Error(c, appErrors.Wrap(nil, appErrors.ErrValidation.Code, http.StatusBadRequest, "unsupported format: "+format))
	}
}

// buildSections mirrors engine's unexported buildSections so export.Build
// can walk the same section/batch shape the engine scheduled against.
func buildSections(req engine.Request) []catalog.Section {
	out := make([]catalog.Section, 0, len(req.Sections))
	for _, name := range req.Sections {
		out = append(out, catalog.Section{Name: name, Batches: req.SectionBatches[name]})
	}
	return out
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, engine.ErrTimeout):
		return "timeout"
	case errors.Is(err, engine.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, engine.ErrInternalInvariant):
		return "internal_invariant"
	default:
		return "error"
	}
}

func (h *ScheduleHandler) applyDefaults(req *dto.ScheduleGenerateRequest) {
	if req.Algorithm == "" && h.defaults.Algorithm != "" {
		req.Algorithm = string(h.defaults.Algorithm)
	}
	if req.PeriodsPerDay == 0 && h.defaults.PeriodsPerDay > 0 {
		req.PeriodsPerDay = h.defaults.PeriodsPerDay
	}
	if req.MaxConsecutiveTheory == 0 && h.defaults.MaxConsecutiveTheory > 0 {
		req.MaxConsecutiveTheory = h.defaults.MaxConsecutiveTheory
	}
	if req.TimeoutSeconds == 0 && h.defaults.Timeout > 0 {
		req.TimeoutSeconds = int(h.defaults.Timeout / time.Second)
	}
}
