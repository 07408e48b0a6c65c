package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/inventory-allocator/internal/api/dto"
	"github.com/eshaffer321/inventory-allocator/internal/application/service"
	"github.com/eshaffer321/inventory-allocator/internal/infrastructure/storage"
)

// AllocationsHandler handles allocation HTTP requests.
type AllocationsHandler struct {
	*Base
}

// NewAllocationsHandler creates a new allocations handler.
func NewAllocationsHandler(svc *service.AllocationService) *AllocationsHandler {
	return &AllocationsHandler{
		Base: NewBase(svc),
	}
}

// Create handles POST /api/allocations - allocates an order across warehouses.
func (h *AllocationsHandler) Create(c *gin.Context) {
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("invalid request body: "+err.Error()))
		return
	}

	order, warehouses := req.ToDomain()
	result, err := h.svc.Allocate(c.Request.Context(), service.Request{
		Order:      order,
		Warehouses: warehouses,
		Compact:    req.Compact,
		Record:     req.ShouldRecord(),
		Source:     storage.SourceAPI,
	})
	if err != nil {
		h.WriteServiceError(c, err, "allocation")
		return
	}

	c.JSON(http.StatusOK, dto.AllocateResponse{
		ID:        result.ID,
		Fulfilled: result.Fulfilled,
		Shipments: dto.NewShipmentResponses(result.Shipments),
	})
}

// List handles GET /api/allocations - returns paginated allocation history.
func (h *AllocationsHandler) List(c *gin.Context) {
	params := dto.DefaultAllocationListParams()
	params.Fulfilled = ParseOptionalBoolParam(c, "fulfilled")
	params.Source = c.Query("source")
	params.Limit = ParseIntParam(c, "limit", params.Limit)
	params.Offset = ParseIntParam(c, "offset", params.Offset)

	result, err := h.svc.List(c.Request.Context(), storage.AllocationFilters{
		Fulfilled: params.Fulfilled,
		Source:    params.Source,
		Limit:     params.Limit,
		Offset:    params.Offset,
	})
	if err != nil {
		h.WriteServiceError(c, err, "allocation")
		return
	}

	response := dto.AllocationListResponse{
		Allocations: make([]dto.AllocationResponse, 0, len(result.Records)),
		TotalCount:  result.TotalCount,
		Limit:       result.Limit,
		Offset:      result.Offset,
	}
	for _, record := range result.Records {
		response.Allocations = append(response.Allocations, dto.NewAllocationResponse(record))
	}

	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/allocations/:id - returns a single allocation.
func (h *AllocationsHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		h.WriteError(c, http.StatusBadRequest, dto.BadRequestError("allocation ID is required"))
		return
	}

	record, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		h.WriteServiceError(c, err, "allocation")
		return
	}

	c.JSON(http.StatusOK, dto.NewAllocationResponse(record))
}
