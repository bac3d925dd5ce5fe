package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	flowgrid "github.com/flowgrid/engine"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Store   string `json:"store"`
}

func (s *Server) handleHealth(c *gin.Context) {
	res := healthResponse{
		Status:  "healthy",
		Service: flowgrid.Name,
		Version: flowgrid.Version,
		Store:   "connected",
	}

	status := http.StatusOK
	if err := s.engine.Ping(c.Request.Context()); err != nil {
		res.Status = "degraded"
		res.Store = err.Error()
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, res)
}
