package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/CristianCureu/fitness-app-api/internal/clients/redis"
	"github.com/CristianCureu/fitness-app-api/internal/services"
)

type RecommendationHandler struct {
	recService services.RecommendationService
	limiter    *redis.RateLimiter
}

func NewRecommendationHandler(recService services.RecommendationService, limiter *redis.RateLimiter) *RecommendationHandler {
	return &RecommendationHandler{recService: recService, limiter: limiter}
}

func (rh *RecommendationHandler) Generate(c *gin.Context) {
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
	if err := rh.limiter.Allow(c.Request.Context(), "recommendations:"+trainerID.String()); err != nil {
		RespondError(c, err)
		return
	}
	result, err := rh.recService.GenerateRecommendations(c.Request.Context(), trainerID, clientID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

func (rh *RecommendationHandler) ListLog(c *gin.Context) {
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
	entries, err := rh.recService.ListLog(c.Request.Context(), trainerID, clientID, queryInt(c, "limit", 20))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"data": entries})
}
