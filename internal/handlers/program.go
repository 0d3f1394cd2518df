package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/CristianCureu/fitness-app-api/internal/apierr"
	"github.com/CristianCureu/fitness-app-api/internal/services"
)

type ProgramHandler struct {
	programService services.ProgramService
}

func NewProgramHandler(programService services.ProgramService) *ProgramHandler {
	return &ProgramHandler{programService: programService}
}

type createProgramRequest struct {
	Name            string                         `json:"name" binding:"required"`
	Description     string                         `json:"description"`
	SessionsPerWeek int                            `json:"sessions_per_week" binding:"required"`
	DurationWeeks   *int                           `json:"duration_weeks"`
	Sessions        []services.ProgramSessionInput `json:"sessions" binding:"required"`
}

func (ph *ProgramHandler) Create(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	var req createProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	program, err := ph.programService.Create(c.Request.Context(), trainerID, services.CreateProgramInput{
		Name:            req.Name,
		Description:     req.Description,
		SessionsPerWeek: req.SessionsPerWeek,
		DurationWeeks:   req.DurationWeeks,
		Sessions:        req.Sessions,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, program)
}

func (ph *ProgramHandler) List(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	programs, err := ph.programService.List(c.Request.Context(), trainerID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"data": programs})
}

func (ph *ProgramHandler) Get(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	programID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	program, err := ph.programService.Get(c.Request.Context(), trainerID, programID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, program)
}

type updateProgramRequest struct {
	Name          *string                        `json:"name"`
	Description   *string                        `json:"description"`
	DurationWeeks *int                           `json:"duration_weeks"`
	Sessions      []services.ProgramSessionInput `json:"sessions"`
}

func (ph *ProgramHandler) Update(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	programID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	var req updateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("Invalid request body: %v", err))
		return
	}
	program, err := ph.programService.Update(c.Request.Context(), trainerID, programID, services.UpdateProgramInput{
		Name:          req.Name,
		Description:   req.Description,
		DurationWeeks: req.DurationWeeks,
		Sessions:      req.Sessions,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, program)
}

func (ph *ProgramHandler) Delete(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	programID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	if err := ph.programService.Delete(c.Request.Context(), trainerID, programID); err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"status": "deleted"})
}

func (ph *ProgramHandler) Clone(c *gin.Context) {
	trainerID, err := callerID(c)
	if err != nil {
		RespondError(c, err)
		return
	}
	programID, err := pathUUID(c, "id")
	if err != nil {
		RespondError(c, err)
		return
	}
	clone, err := ph.programService.Clone(c.Request.Context(), trainerID, programID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, clone)
}
