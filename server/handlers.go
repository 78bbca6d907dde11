package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skillsenselab/ecgflow/denoise"
	"github.com/skillsenselab/ecgflow/errors"
	"github.com/skillsenselab/ecgflow/interval"
	"github.com/skillsenselab/ecgflow/logger"
	"github.com/skillsenselab/ecgflow/version"
)

// RunService wires the denoising runner and run store into HTTP handlers.
type RunService struct {
	runner *denoise.Runner
	store  *RunStore
	log    *logger.Logger
}

// NewRunService creates the handler set for pipeline runs.
func NewRunService(runner *denoise.Runner, store *RunStore) *RunService {
	return &RunService{
		runner: runner,
		store:  store,
		log:    logger.WithComponent("api"),
	}
}

// Register mounts the run API and the default endpoints.
func (svc *RunService) Register(r gin.IRouter) {
	r.GET("/health", svc.health)
	r.GET("/info", svc.info)

	api := r.Group("/api")
	api.POST("/runs", svc.createRun)
	api.GET("/runs", svc.listRuns)
	api.GET("/runs/:id", svc.getRun)
	api.GET("/runs/:id/stages", svc.listStages)
	api.GET("/runs/:id/stages/:name", svc.getStage)
	api.GET("/runs/:id/detections", svc.listDetections)
	api.GET("/runs/:id/projections/:detection", svc.getProjection)
	api.DELETE("/runs/:id", svc.deleteRun)
}

type runRequest struct {
	// Signal is the raw sample array.
	Signal []float64 `json:"signal" binding:"required"`
	// Gaps are removed-measurement spans in the signal's index space.
	Gaps [][2]int `json:"gaps"`
}

func (svc *RunService) createRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithError(c, errors.InvalidInput("body", err.Error()))
		return
	}

	gaps := make([]interval.Span, 0, len(req.Gaps))
	for _, p := range req.Gaps {
		a, b := p[0], p[1]
		if a > b {
			a, b = b, a
		}
		gaps = append(gaps, interval.Span{Start: a, End: b})
	}
	gaps = interval.Normalize(gaps, len(req.Signal))

	res, err := svc.runner.Run(c.Request.Context(), req.Signal, gaps)
	if err != nil {
		svc.log.Error("run failed", logger.Fields(
			logger.FieldRunID, res.RunID,
			logger.FieldError, err.Error(),
		))
		RespondWithError(c, err)
		return
	}

	rep, err := denoise.BuildReport(res)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	svc.store.Put(res, rep)
	RespondCreated(c, rep)
}

func (svc *RunService) listRuns(c *gin.Context) {
	RespondOK(c, svc.store.List())
}

func (svc *RunService) getRun(c *gin.Context) {
	_, rep, err := svc.store.Get(c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, rep)
}

func (svc *RunService) listStages(c *gin.Context) {
	_, rep, err := svc.store.Get(c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, rep.Stages)
}

type stageResponse struct {
	Name   string    `json:"name"`
	Length int       `json:"length"`
	Signal []float64 `json:"signal"`
}

func (svc *RunService) getStage(c *gin.Context) {
	res, _, err := svc.store.Get(c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	name := c.Param("name")
	signal, err := res.StageSignal(name)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, stageResponse{Name: name, Length: len(signal), Signal: signal})
}

func (svc *RunService) listDetections(c *gin.Context) {
	res, _, err := svc.store.Get(c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, res.Detections())
}

func (svc *RunService) getProjection(c *gin.Context) {
	res, _, err := svc.store.Get(c.Param("id"))
	if err != nil {
		RespondWithError(c, err)
		return
	}

	target := c.DefaultQuery("target", "original")
	switch target {
	case "original":
		target = res.Chain().Root()
	case "start":
		target = res.Chain().Reference()
	}

	proj, err := res.Projected(c.Param("detection"), target)
	if err != nil {
		RespondWithError(c, err)
		return
	}
	RespondOK(c, proj)
}

func (svc *RunService) deleteRun(c *gin.Context) {
	svc.store.Delete(c.Param("id"))
	c.Status(http.StatusNoContent)
}

func (svc *RunService) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "ecgflow"})
}

func (svc *RunService) info(c *gin.Context) {
	c.JSON(http.StatusOK, version.Get())
}
