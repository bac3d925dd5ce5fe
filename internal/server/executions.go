package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/flowgrid/engine/internal/engine"
	"github.com/flowgrid/engine/internal/store"
	"github.com/flowgrid/engine/pkg/api"
)

var (
	ErrListExecutions = errors.New("failed to list executions")
	ErrGetExecution   = errors.New("failed to get execution")
	ErrRunWorkflow    = errors.New("failed to run workflow")
)

func (s *Server) executeWorkflow(c *gin.Context) {
	workflowID := api.WorkflowID(c.Param("workflowID"))

	var req api.StartExecutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	if req.TriggerType == "" {
		req.TriggerType = api.TriggerManual
	}
	if !api.Subtypes[api.CategoryTrigger].Contains(req.TriggerType) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("unknown trigger type: %s", req.TriggerType),
			Status: http.StatusBadRequest,
		})
		return
	}

	exec, err := s.engine.StartExecution(
		c.Request.Context(), workflowID, req.TriggerType, req.Payload,
	)
	if err == nil {
		c.JSON(http.StatusCreated, exec)
		return
	}

	switch {
	case errors.Is(err, store.ErrWorkflowNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %s", err.Error(), workflowID),
			Status: http.StatusNotFound,
		})
	case errors.Is(err, engine.ErrNoTriggerNode):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusBadRequest,
		})
	case errors.Is(err, engine.ErrWorkflowDisabled):
		c.JSON(http.StatusConflict, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusConflict,
		})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrRunWorkflow, err),
			Status: http.StatusInternalServerError,
		})
	}
}

func (s *Server) listExecutions(c *gin.Context) {
	workflowID := api.WorkflowID(c.Query("workflow_id"))

	executions, err := s.engine.ListExecutions(c.Request.Context(), workflowID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrListExecutions, err),
			Status: http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, api.ExecutionsListResponse{
		Executions: executions,
		Count:      len(executions),
	})
}

func (s *Server) getExecution(c *gin.Context) {
	executionID := api.ExecutionID(c.Param("executionID"))

	exec, err := s.engine.GetExecution(c.Request.Context(), executionID)
	if err == nil {
		c.JSON(http.StatusOK, exec)
		return
	}

	if errors.Is(err, store.ErrExecutionNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %s", err.Error(), executionID),
			Status: http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{
		Error:  fmt.Sprintf("%s: %v", ErrGetExecution, err),
		Status: http.StatusInternalServerError,
	})
}

func (s *Server) cancelExecution(c *gin.Context) {
	executionID := api.ExecutionID(c.Param("executionID"))

	exec, err := s.engine.CancelExecution(c.Request.Context(), executionID)
	if err == nil {
		c.JSON(http.StatusOK, exec)
		return
	}

	switch {
	case errors.Is(err, store.ErrExecutionNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %s", err.Error(), executionID),
			Status: http.StatusNotFound,
		})
	case errors.Is(err, engine.ErrExecutionFinished):
		c.JSON(http.StatusConflict, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusConflict,
		})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusInternalServerError,
		})
	}
}
