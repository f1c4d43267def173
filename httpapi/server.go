// Package httpapi exposes the engine over HTTP. It is one driver among
// others; the core never depends on it.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/intakekit/intake/form"
	"github.com/intakekit/intake/session"
	"github.com/intakekit/intake/types"
)

type startRequest struct {
	FormID string       `json:"form_id"`
	Schema *form.Schema `json:"schema"`
	Mode   types.Mode   `json:"mode"`
}

type answerRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message"`
}

// NewRouter builds the API routes around an engine. Inline schemas and
// built-in form ids are both accepted at start.
func NewRouter(engine *session.Engine) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api/forms")
	{
		api.POST("/start", startForm(engine))
		api.POST("/answer", submitAnswer(engine))
		api.GET("/result/:sessionID", getResult(engine))
		api.GET("/list", listForms())
	}
	return router
}

func startForm(engine *session.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req startRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		schema := req.Schema
		if schema == nil {
			schema = form.Lookup(req.FormID)
			if schema == nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown form_id: " + req.FormID})
				return
			}
		}
		result, err := engine.StartSession(c.Request.Context(), schema, req.Mode)
		if err != nil {
			var schemaErr *form.SchemaError
			if errors.As(err, &schemaErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			slog.Error("failed to start session", "form", req.FormID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
			return
		}
		slog.Info("started form session", "session_id", result.SessionID, "form", schema.ID)
		c.JSON(http.StatusOK, result)
	}
}

func submitAnswer(engine *session.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req answerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		result, err := engine.SubmitAnswer(c.Request.Context(), req.SessionID, req.Message)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, session.ErrSessionNotFound):
				status = http.StatusNotFound
			case errors.Is(err, session.ErrNotAwaitingInput):
				status = http.StatusConflict
			default:
				slog.Error("failed to process answer", "session_id", req.SessionID, "error", err)
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func getResult(engine *session.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionID")
		st, err := engine.State(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			slog.Error("failed to load session", "session_id", sessionID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"session_id":       sessionID,
			"form_id":          st.Schema.ID,
			"mode":             st.Mode,
			"is_complete":      st.Complete,
			"collected_fields": st.Collected,
		})
	}
}

func listForms() gin.HandlerFunc {
	return func(c *gin.Context) {
		forms := make([]gin.H, 0, len(form.Registry))
		for id, ctor := range form.Registry {
			schema := ctor()
			forms = append(forms, gin.H{
				"id":          id,
				"name":        schema.Name,
				"field_count": len(schema.Fields),
			})
		}
		c.JSON(http.StatusOK, gin.H{"forms": forms})
	}
}
