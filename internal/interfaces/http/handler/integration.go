package handler

import (
	"time"

	integrationapp "github.com/datasync/backend/internal/application/integration"
	"github.com/datasync/backend/internal/domain/integration"
	"github.com/gin-gonic/gin"
)

// IntegrationHandler handles integration API endpoints
type IntegrationHandler struct {
	BaseHandler
	integrations *integrationapp.Service
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(integrations *integrationapp.Service) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations}
}

// RegisterRoutes registers integration routes on the API group
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/integration")
	{
		group.POST("", h.Submit)
		group.GET("", h.List)
		group.GET("/:id", h.GetStatus)
	}
}

// SubmitIntegrationRequest represents a request to start an integration job.
// Source type and strategy are accepted as-is; unknown values fail the job
// during asynchronous execution rather than at submission.
type SubmitIntegrationRequest struct {
	SourceName    string            `json:"source_name" binding:"required,min=1,max=200"`
	SourceType    string            `json:"source_type" binding:"required"`
	SourceConfig  map[string]any    `json:"source_config"`
	TargetEntity  string            `json:"target_entity" binding:"required,min=1,max=100"`
	Strategy      string            `json:"strategy" binding:"required"`
	FieldMappings map[string]string `json:"field_mappings"`
	ValidateData  bool              `json:"validate_data"`
	RequestTime   *time.Time        `json:"request_time"`
}

// Submit handles POST /integration. It responds 202 with the initial PENDING
// snapshot; the Location header points at the job's status resource.
func (h *IntegrationHandler) Submit(c *gin.Context) {
	var req SubmitIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := integrationapp.SubmitRequest{
		SourceName:    req.SourceName,
		SourceType:    integration.SourceType(req.SourceType),
		SourceConfig:  req.SourceConfig,
		TargetEntity:  req.TargetEntity,
		Strategy:      integration.Strategy(req.Strategy),
		FieldMappings: req.FieldMappings,
		ValidateData:  req.ValidateData,
	}
	if req.RequestTime != nil {
		appReq.RequestTime = *req.RequestTime
	}

	status, err := h.integrations.Submit(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/integration/"+status.IntegrationID)
	h.Accepted(c, status)
}

// GetStatus handles GET /integration/:id
func (h *IntegrationHandler) GetStatus(c *gin.Context) {
	status, err := h.integrations.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, status)
}

// List handles GET /integration
func (h *IntegrationHandler) List(c *gin.Context) {
	statuses, err := h.integrations.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, statuses)
}
