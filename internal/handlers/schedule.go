package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/requestdata"
	"github.com/CristianCureu/fitness-app-api/internal/services"
)

type ScheduleHandler struct {
	scheduleService services.ScheduleService
}

func NewScheduleHandler(scheduleService services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleService: scheduleService}
}

func callerIdentity(c *gin.Context) (uuid.UUID, string, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, "", apierr.Unauthorized("Missing request identity")
	}
	return rd.UserID, rd.Role, nil
}

type createSessionRequest struct {
	ClientID    uuid.UUID  `json:"client_id" binding:"required"`
	SessionName string     `json:"session_name" binding:"required"`
	SessionType string     `json:"session_type" binding:"required"`
	StartAt     time.Time  `json:"start_at" binding:"required"`
	EndAt       *time.Time `json:"end_at"`
}

func (sh *ScheduleHandler) Create(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	session, err := sh.scheduleService.Create(c.Request.Context(), trainerID, services.CreateSessionInput{
		ClientID:    req.ClientID,
		SessionName: req.SessionName,
		SessionType: req.SessionType,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, session)
}

type createClientSessionRequest struct {
	StartAt time.Time  `json:"start_at" binding:"required"`
	EndAt   *time.Time `json:"end_at"`
}

func (sh *ScheduleHandler) CreateForClient(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req createClientSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	session, err := sh.scheduleService.CreateForClient(c.Request.Context(), userID, services.CreateClientSessionInput{
		StartAt: req.StartAt,
		EndAt:   req.EndAt,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, session)
}

func (sh *ScheduleHandler) GetSuggestion(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	suggestion, err := sh.scheduleService.GetClientSuggestion(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, suggestion)
}

func (sh *ScheduleHandler) List(c *gin.Context) {
	userID, role, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	query := services.ListSessionsQuery{
		Status: c.Query("status"),
		Offset: queryInt(c, "offset", 0),
		Limit:  queryInt(c, "limit", 50),
	}
	if raw := c.Query("client_id"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			RespondError(c, apierr.Validation("Invalid client_id: %s", raw))
			return
		}
		query.ClientID = clientID
	}
	if raw := c.Query("start_date"); raw != "" {
		startDate, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondError(c, apierr.Validation("Invalid start_date: %s", raw))
			return
		}
		query.StartDate = &startDate
	}
	if raw := c.Query("end_date"); raw != "" {
		endDate, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			RespondError(c, apierr.Validation("Invalid end_date: %s", raw))
			return
		}
		query.EndDate = &endDate
	}

	page, err := sh.scheduleService.List(c.Request.Context(), userID, role, query)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (sh *ScheduleHandler) UpdateStatus(c *gin.Context) {
	userID, role, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	session, err := sh.scheduleService.UpdateStatus(c.Request.Context(), sessionID, userID, role, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, session)
}

type completeSessionRequest struct {
	Notes *string `json:"notes"`
}

func (sh *ScheduleHandler) Complete(c *gin.Context) {
	userID, role, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req completeSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	session, err := sh.scheduleService.Complete(c.Request.Context(), sessionID, userID, role, req.Notes)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, session)
}

func (sh *ScheduleHandler) Remove(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	sessionID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := sh.scheduleService.Remove(c.Request.Context(), sessionID, trainerID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

func (sh *ScheduleHandler) GetWeekCalendar(c *gin.Context) {
	userID, role, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	date := time.Now()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			RespondError(c, apierr.Validation("Invalid date: %s", raw))
			return
		}
		date = parsed
	}
	calendar, err := sh.scheduleService.GetWeekCalendar(c.Request.Context(), userID, role, date)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, calendar)
}

func (sh *ScheduleHandler) GetUpcoming(c *gin.Context) {
	userID, role, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	sessions, err := sh.scheduleService.GetUpcoming(c.Request.Context(), userID, role, queryInt(c, "limit", 10))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"data": sessions})
}

func (sh *ScheduleHandler) GetHistory(c *gin.Context) {
	userID, role, err := callerIdentity(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	page, err := sh.scheduleService.GetHistory(c.Request.Context(), userID, role, queryInt(c, "limit", 20), queryInt(c, "offset", 0))
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}
