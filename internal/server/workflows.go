package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kode4food/flowdraft/internal/store"
	"github.com/kode4food/flowdraft/pkg/api"
	"github.com/kode4food/flowdraft/pkg/log"
)

var (
	ErrInvalidJSON    = errors.New("invalid JSON request")
	ErrNameRequired   = errors.New("workflow name is required")
	ErrListWorkflows  = errors.New("failed to list workflows")
	ErrReadWorkflow   = errors.New("failed to read workflow")
	ErrSaveWorkflow   = errors.New("failed to save workflow")
	ErrUpdateWorkflow = errors.New("failed to update workflow")
	ErrDeleteWorkflow = errors.New("failed to delete workflow")
)

const (
	msgCreated = "Workflow created successfully"
	msgUpdated = "Workflow updated successfully"
	msgDeleted = "Workflow deleted successfully"
)

func (s *Server) listWorkflows(c *gin.Context) {
	names, err := s.store.List(c.Request.Context())
	if err != nil {
		s.internalError(c, ErrListWorkflows, "", err)
		return
	}

	c.JSON(http.StatusOK, api.WorkflowsListResponse{
		Workflows: names,
		Count:     len(names),
	})
}

func (s *Server) getWorkflow(c *gin.Context) {
	name := c.Param("name")

	wf, err := s.store.Read(c.Request.Context(), name)
	if err == nil {
		c.JSON(http.StatusOK, wf)
		return
	}
	s.storeError(c, ErrReadWorkflow, name, err)
}

func (s *Server) saveWorkflow(c *gin.Context) {
	var req api.SaveWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  ErrNameRequired.Error(),
			Status: http.StatusBadRequest,
		})
		return
	}

	wf, created, err := s.store.Write(c.Request.Context(), req.Workflow())
	if err != nil {
		s.storeError(c, ErrSaveWorkflow, req.Name, err)
		return
	}

	if created {
		s.publish(api.EventTypeWorkflowCreated, wf.Name, wf.UpdatedAt)
		c.JSON(http.StatusCreated, api.WorkflowSavedResponse{
			Message:  msgCreated,
			Workflow: wf,
			Created:  true,
		})
		return
	}

	s.publish(api.EventTypeWorkflowUpdated, wf.Name, wf.UpdatedAt)
	c.JSON(http.StatusOK, api.WorkflowSavedResponse{
		Message:  msgUpdated,
		Workflow: wf,
	})
}

func (s *Server) updateWorkflow(c *gin.Context) {
	name := c.Param("name")

	var patch api.WorkflowPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %v", ErrInvalidJSON, err),
			Status: http.StatusBadRequest,
		})
		return
	}

	wf, err := s.store.Update(c.Request.Context(), name, &patch)
	if err != nil {
		s.storeError(c, ErrUpdateWorkflow, name, err)
		return
	}

	s.publish(api.EventTypeWorkflowUpdated, wf.Name, wf.UpdatedAt)
	c.JSON(http.StatusOK, api.WorkflowUpdatedResponse{
		Message:  msgUpdated,
		Workflow: wf,
	})
}

func (s *Server) deleteWorkflow(c *gin.Context) {
	name := c.Param("name")

	if err := s.store.Delete(c.Request.Context(), name); err != nil {
		s.storeError(c, ErrDeleteWorkflow, name, err)
		return
	}

	s.publish(api.EventTypeWorkflowDeleted, name, time.Now())
	c.JSON(http.StatusOK, api.MessageResponse{
		Message: msgDeleted,
	})
}

// storeError renders expected store outcomes verbatim and everything else
// as a generic failure
func (s *Server) storeError(
	c *gin.Context, op error, name string, err error,
) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %s", store.ErrNotFound, name),
			Status: http.StatusNotFound,
		})
	case errors.Is(err, store.ErrInvalidName):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("%s: %q", store.ErrInvalidName, name),
			Status: http.StatusBadRequest,
		})
	default:
		s.internalError(c, op, name, err)
	}
}

func (s *Server) internalError(
	c *gin.Context, op error, name string, err error,
) {
	attrs := []any{
		log.RequestID(c.GetString(requestIDKey)),
		log.Error(err),
	}
	if name != "" {
		attrs = append(attrs, log.Workflow(name))
	}
	slog.Error(op.Error(), attrs...)

	c.JSON(http.StatusInternalServerError, api.ErrorResponse{
		Error:  op.Error(),
		Status: http.StatusInternalServerError,
	})
}

func (s *Server) publish(typ api.EventType, name string, at time.Time) {
	s.hub.Publish(api.NewWorkflowEvent(typ, name, at))
}
