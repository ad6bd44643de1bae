package wizard

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Service ties the step list, the job manager and the persisted field
// state together for the HTTP layer.
type Service struct {
	Steps   *Steps
	Jobs    *Manager
	State   *State
	Version string
}

type stepView struct {
	Step
	Values map[string]string `json:"values"`
}

type runRequest struct {
	Fields map[string]string `json:"fields"`
}

// NewRouter builds the wizard's HTTP surface.
func NewRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(indexHTML))
	})

	api := router.Group("/api")

	api.GET("/steps", func(c *gin.Context) {
		views := make([]stepView, 0, len(svc.Steps.All()))
		for _, step := range svc.Steps.All() {
			views = append(views, stepView{Step: step, Values: svc.State.Get(step)})
		}
		c.JSON(http.StatusOK, gin.H{"version": svc.Version, "steps": views})
	})

	api.POST("/steps/:id/run", func(c *gin.Context) {
		step, ok := svc.Steps.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown step"})
			return
		}

		var req runRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		fields := svc.State.Get(step)
		for name, value := range req.Fields {
			fields[name] = value
		}
		if err := svc.State.Put(step.ID, fields); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		// Jobs outlive the POST that starts them; the request context
		// is canceled as soon as this handler returns.
		job, err := svc.Jobs.Start(context.Background(), step, fields)
		if err != nil {
			if busy, ok := err.(*ErrBusy); ok {
				c.JSON(http.StatusConflict, gin.H{"error": busy.Error(), "job_id": busy.JobID})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID})
	})

	api.GET("/jobs/:id", func(c *gin.Context) {
		job, ok := svc.Jobs.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
			return
		}
		c.JSON(http.StatusOK, job)
	})

	return router
}

// Serve blocks on the wizard's HTTP listener.
func Serve(svc *Service, addr string) error {
	return NewRouter(svc).Run(addr)
}
