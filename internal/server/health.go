package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	app "github.com/kode4food/flowdraft"
	"github.com/kode4food/flowdraft/pkg/api"
)

const healthMessage = "Workflow server is running"

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, api.HealthResponse{
		Service: app.Name,
		Version: app.Version,
		Status:  api.HealthHealthy,
		Message: healthMessage,
	})
}
