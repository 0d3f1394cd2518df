package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/repos"
	"github.com/CristianCureu/fitness-app-api/internal/requestdata"
	"github.com/CristianCureu/fitness-app-api/internal/services"
)

type ClientHandler struct {
	clientService services.ClientService
}

func NewClientHandler(clientService services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func callerID(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, apierr.Unauthorized("Missing request identity")
	}
	return rd.UserID, nil
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apierr.Validation("Invalid %s: %s", name, c.Param(name))
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

type createClientRequest struct {
	Email           string   `json:"email" binding:"required"`
	Password        string   `json:"password" binding:"required"`
	FirstName       string   `json:"first_name" binding:"required"`
	LastName        string   `json:"last_name" binding:"required"`
	Timezone        string   `json:"timezone"`
	Age             *int     `json:"age"`
	Height          *float64 `json:"height"`
	Weight          *float64 `json:"weight"`
	GoalDescription string   `json:"goal_description"`
}

func (ch *ClientHandler) Create(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	profile, err := ch.clientService.Create(c.Request.Context(), trainerID, services.CreateClientInput{
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Timezone:        req.Timezone,
		Age:             req.Age,
		Height:          req.Height,
		Weight:          req.Weight,
		GoalDescription: req.GoalDescription,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, profile)
}

func (ch *ClientHandler) List(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	page, err := ch.clientService.List(c.Request.Context(), trainerID, repos.ClientProfileFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Offset: queryInt(c, "offset", 0),
		Limit:  queryInt(c, "limit", 50),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, page)
}

func (ch *ClientHandler) Get(c *gin.Context) {
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
	profile, err := ch.clientService.Get(c.Request.Context(), trainerID, clientID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, profile)
}

func (ch *ClientHandler) GetMyProfile(c *gin.Context) {
	userID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	profile, err := ch.clientService.GetMyProfile(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, profile)
}

type updateClientRequest struct {
	FirstName       *string  `json:"first_name"`
	LastName        *string  `json:"last_name"`
	Timezone        *string  `json:"timezone"`
	Age             *int     `json:"age"`
	Height          *float64 `json:"height"`
	Weight          *float64 `json:"weight"`
	GoalDescription *string  `json:"goal_description"`
	Status          *string  `json:"status"`
}

func (ch *ClientHandler) Update(c *gin.Context) {
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
	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	profile, err := ch.clientService.Update(c.Request.Context(), trainerID, clientID, services.UpdateClientInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Timezone:        req.Timezone,
		Age:             req.Age,
		Height:          req.Height,
		Weight:          req.Weight,
		GoalDescription: req.GoalDescription,
		Status:          req.Status,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, profile)
}

func (ch *ClientHandler) Delete(c *gin.Context) {
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
	if err := ch.clientService.Delete(c.Request.Context(), trainerID, clientID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

type assignProgramRequest struct {
	ProgramID    uuid.UUID `json:"program_id" binding:"required"`
	StartDate    time.Time `json:"start_date"`
	TrainingDays []string  `json:"training_days" binding:"required"`
}

func (ch *ClientHandler) AssignProgram(c *gin.Context) {
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
	var req assignProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	assignment, err := ch.clientService.AssignProgram(c.Request.Context(), trainerID, clientID, services.AssignProgramInput{
		ProgramID:    req.ProgramID,
		StartDate:    req.StartDate,
		TrainingDays: req.TrainingDays,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assignment)
}

func (ch *ClientHandler) GetClientProgram(c *gin.Context) {
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
	assignment, err := ch.clientService.GetClientProgram(c.Request.Context(), trainerID, clientID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assignment)
}

func (ch *ClientHandler) RemoveProgram(c *gin.Context) {
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
	if err := ch.clientService.RemoveProgram(c.Request.Context(), trainerID, clientID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "removed"})
}

type updateTrainingDaysRequest struct {
	TrainingDays []string `json:"training_days" binding:"required"`
}

func (ch *ClientHandler) UpdateTrainingDays(c *gin.Context) {
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
	var req updateTrainingDaysRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	assignment, err := ch.clientService.UpdateTrainingDays(c.Request.Context(), trainerID, clientID, req.TrainingDays)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, assignment)
}
