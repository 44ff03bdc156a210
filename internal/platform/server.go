package platform

import (
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdiddy/graph-structure/pkg/types"
)

// DispatchRequest is the body of POST /api/tasks.
type DispatchRequest struct {
	Participants []string          `json:"participants,omitempty"`
	Request      types.TaskRequest `json:"request"`
}

// Server exposes a Hub over a REST API.
type Server struct {
	Hub    *Hub
	APIKey string
}

// NewServer returns a server for hub. An empty apiKey disables
// authentication.
func NewServer(hub *Hub, apiKey string) *Server {
	return &Server{Hub: hub, APIKey: apiKey}
}

// SetupRouter registers the platform routes on a new engine.
func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", s.requireKey)
	api.GET("/participants", s.ListParticipants)
	api.POST("/tasks", s.CreateTask)
	api.GET("/tasks/:id", s.GetTask)
	api.GET("/tasks/:id/results", s.GetResults)

	return r
}

func (s *Server) requireKey(c *gin.Context) {
	if s.APIKey == "" {
		return
	}
	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.APIKey)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": ErrUnauthorized.Error()})
		return
	}
}

// ListParticipants handles GET /api/participants.
func (s *Server) ListParticipants(c *gin.Context) {
	ps, err := s.Hub.Participants(c.Request.Context())
	if err != nil {
		log.Printf("Failed to list participants: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list participants"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": ps})
}

// CreateTask handles POST /api/tasks: it dispatches the request and
// answers 202 with the task handle.
func (s *Server) CreateTask(c *gin.Context) {
	var req DispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.Request.Method != types.MethodGetStructure {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown method " + req.Request.Method})
		return
	}

	handle, err := s.Hub.Dispatch(c.Request.Context(), req.Participants, req.Request)
	if errors.Is(err, ErrUnknownParticipant) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("Failed to dispatch task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to dispatch task"})
		return
	}
	c.JSON(http.StatusAccepted, handle)
}

// GetTask handles GET /api/tasks/:id.
func (s *Server) GetTask(c *gin.Context) {
	st, err := s.Hub.Status(c.Request.Context(), types.TaskHandle{ID: c.Param("id")})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// GetResults handles GET /api/tasks/:id/results.
func (s *Server) GetResults(c *gin.Context) {
	results, err := s.Hub.Results(c.Request.Context(), types.TaskHandle{ID: c.Param("id")})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}
