package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/services"
)

type CheckinHandler struct {
	checkinService services.CheckinService
}

func NewCheckinHandler(checkinService services.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService}
}

type createCheckinRequest struct {
	Date           time.Time `json:"date"`
	NutritionScore int       `json:"nutrition_score"`
	PainAtTraining bool      `json:"pain_at_training"`
	Note           *string   `json:"note"`
}

func (ch *CheckinHandler) Create(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req createCheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	checkin, err := ch.checkinService.Create(c.Request.Context(), userID, services.CreateCheckinInput{
		Date:           req.Date,
		NutritionScore: req.NutritionScore,
		PainAtTraining: req.PainAtTraining,
		Note:           req.Note,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, checkin)
}

func (ch *CheckinHandler) ListMine(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	checkins, err := ch.checkinService.ListMine(c.Request.Context(), userID, queryInt(c, "limit", 30))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"data": checkins})
}

func (ch *CheckinHandler) ListForClient(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	clientID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	checkins, err := ch.checkinService.ListForClient(c.Request.Context(), trainerID, clientID, queryInt(c, "limit", 30))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"data": checkins})
}
