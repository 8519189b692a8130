package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/api/middleware"
	"github.com/GriffinCanCode/framebridge/internal/host"
	"github.com/GriffinCanCode/framebridge/internal/protocol"
)

type handlers struct {
	server *Server
}

// health reports bridge status
func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"connections": h.server.hub.Connections(),
		"containers":  len(h.server.containers.List()),
	})
}

// listComponents lists every watched container
func (h *handlers) listComponents(c *gin.Context) {
	containers := h.server.containers.List()
	c.JSON(http.StatusOK, gin.H{
		"components": containers,
		"count":      len(containers),
	})
}

// getComponent returns one container snapshot
func (h *handlers) getComponent(c *gin.Context) {
	identifier := c.Param("id")

	container, ok := h.server.containers.Get(identifier)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "component not watched"})
		return
	}
	c.JSON(http.StatusOK, container)
}

// watch starts tracking a component identifier
func (h *handlers) watch(c *gin.Context) {
	identifier := c.Param("id")

	status := http.StatusOK
	if h.server.Watch(identifier) {
		status = http.StatusCreated
	}
	container, _ := h.server.containers.Get(identifier)
	c.JSON(status, container)
}

// unwatch stops tracking a component identifier
func (h *handlers) unwatch(c *gin.Context) {
	if !h.server.Unwatch(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "component not watched"})
		return
	}
	c.Status(http.StatusNoContent)
}

// command posts a host command to a component
func (h *handlers) command(c *gin.Context) {
	identifier := c.Param("id")
	kind := protocol.Kind(c.Param("kind"))

	err := h.server.bridge.Send(identifier, kind, nil)
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{
			"target": identifier,
			"kind":   kind,
		})
	case errors.Is(err, host.ErrUnknownCommand), errors.Is(err, host.ErrNoIdentifier):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.server.logger.Warn("Command not sent",
			zap.String("identifier", identifier),
			zap.String("kind", kind.String()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	}
}
