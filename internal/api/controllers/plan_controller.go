package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"voyago/internal/models/request_models"
	"voyago/internal/models/response_models"
	"voyago/internal/providers"
	"voyago/internal/services"
	"voyago/pkg/utils"
)

type PlanController struct {
	plannerService services.PlannerInterface
	patchService   services.PatchInterface
	flightsClient  providers.FlightsClientInterface
	placesClient   providers.PlacesClientInterface
}

func NewPlanController(
	plannerService services.PlannerInterface,
	patchService services.PatchInterface,
	flightsClient providers.FlightsClientInterface,
	placesClient providers.PlacesClientInterface,
) *PlanController {
	return &PlanController{
		plannerService: plannerService,
		patchService:   patchService,
		flightsClient:  flightsClient,
		placesClient:   placesClient,
	}
}

// planEnvelope carries the plan plus notices about which data came from
// generated stand-ins, so the UI can label estimates honestly.
type planEnvelope struct {
	Plan        *response_models.Plan `json:"plan"`
	DataNotices []string              `json:"data_notices,omitempty"`
}

// POST /plans
func (p *PlanController) GeneratePlanHandler(c *gin.Context) {
	var spec request_models.TripSpecification
	if err := c.ShouldBindJSON(&spec); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	plan, err := p.plannerService.GeneratePlan(c.Request.Context(), spec)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	envelope := planEnvelope{Plan: plan}
	if p.flightsClient.Synthetic() {
		envelope.DataNotices = append(envelope.DataNotices, "Flight details are estimates; no live flight source is configured.")
	}
	if !p.placesClient.Available() {
		envelope.DataNotices = append(envelope.DataNotices, "Activities were not verified against live place data.")
	}

	utils.RespondSuccess(c, envelope, "Travel plan created successfully")
}

// POST /plans/edit
func (p *PlanController) EditPlanHandler(c *gin.Context) {
	var req request_models.EditPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(req.Plan) == 0 || req.Message == "" {
		utils.RespondError(c, http.StatusBadRequest, "plan and message are required")
		return
	}

	result := p.patchService.ApplyEdit(c.Request.Context(), req.Plan, req.Message, req.History)

	// A failed edit is still a conversational success: the caller keeps
	// their plan and gets a message explaining what happened.
	utils.RespondSuccess(c, result, "Edit processed")
}
