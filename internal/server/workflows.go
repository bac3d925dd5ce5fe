package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowgrid/engine/internal/store"
	"github.com/flowgrid/engine/pkg/api"
)

var (
	ErrInvalidJSON    = errors.New("invalid JSON payload")
	ErrListWorkflows  = errors.New("failed to list workflows")
	ErrGetWorkflow    = errors.New("failed to get workflow")
	ErrSaveWorkflow   = errors.New("failed to save workflow")
	ErrDeleteWorkflow = errors.New("failed to delete workflow")
)

func (s *Server) listWorkflows(c *gin.Context) {
	workflows, err := s.engine.ListWorkflows(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrListWorkflows, err),
			Status: http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, api.WorkflowsListResponse{
		Workflows: workflows,
		Count:     len(workflows),
	})
}

func (s *Server) putWorkflow(c *gin.Context) {
	workflowID := api.SanitizeID(api.WorkflowID(c.Param("workflowID")))
	if workflowID == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  "Valid Workflow ID is required",
			Status: http.StatusBadRequest,
		})
		return
	}

	var wf api.Workflow
	if err := c.ShouldBindJSON(&wf); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}
	wf.ID = workflowID

	ctx := c.Request.Context()
	now := time.Now()
	wf.UpdatedAt = now
	wf.CreatedAt = now

	status := http.StatusCreated
	if existing, err := s.engine.GetWorkflow(ctx, workflowID); err == nil {
		wf.CreatedAt = existing.CreatedAt
		status = http.StatusOK
	}

	err := s.engine.SaveWorkflow(ctx, &wf)
	if err == nil {
		c.JSON(status, &wf)
		return
	}

	if errors.Is(err, store.ErrWriteWorkflow) {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrSaveWorkflow, err),
			Status: http.StatusInternalServerError,
		})
		return
	}
	c.JSON(http.StatusBadRequest, api.ErrorResponse{
		Error:  err.Error(),
		Status: http.StatusBadRequest,
	})
}

func (s *Server) getWorkflow(c *gin.Context) {
	workflowID := api.WorkflowID(c.Param("workflowID"))

	wf, err := s.engine.GetWorkflow(c.Request.Context(), workflowID)
	if err == nil {
		c.JSON(http.StatusOK, wf)
		return
	}

	if errors.Is(err, store.ErrWorkflowNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %s", err.Error(), workflowID),
			Status: http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{
		Error:  fmt.Sprintf("%s: %v", ErrGetWorkflow, err),
		Status: http.StatusInternalServerError,
	})
}

func (s *Server) deleteWorkflow(c *gin.Context) {
	workflowID := api.WorkflowID(c.Param("workflowID"))

	err := s.engine.DeleteWorkflow(c.Request.Context(), workflowID)
	if err == nil {
		c.JSON(http.StatusOK, api.MessageResponse{
			Message: fmt.Sprintf("Workflow %s deleted", workflowID),
		})
		return
	}

	if errors.Is(err, store.ErrWorkflowNotFound) {
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %s", err.Error(), workflowID),
			Status: http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, api.ErrorResponse{
		Error:  fmt.Sprintf("%s: %v", ErrDeleteWorkflow, err),
		Status: http.StatusInternalServerError,
	})
}
