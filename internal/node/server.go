package node

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/graph-structure/internal/extract"
	"github.com/pdiddy/graph-structure/pkg/types"
)

// Server exposes a node's get_structure method over HTTP.
type Server struct {
	Source extract.EdgeSource
}

// NewServer returns a server answering from src.
func NewServer(src extract.EdgeSource) *Server {
	return &Server{Source: src}
}

// SetupRouter registers the node routes on a new engine.
func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/rpc", s.RPC)

	return r
}

// RPC decodes a TaskRequest and responds with the node's report.
func (s *Server) RPC(c *gin.Context) {
	var req types.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	report, err := Handle(c.Request.Context(), s.Source, req, log.Writer())
	if errors.Is(err, ErrUnknownMethod) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("get_structure failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to extract structure"})
		return
	}

	c.JSON(http.StatusOK, report)
}
