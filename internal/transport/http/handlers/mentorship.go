package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codeclannigeria/codeclannigeria.dev/internal/core/domain"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/transport/http/middleware"
	"github.com/codeclannigeria/codeclannigeria.dev/internal/usecase"
)

// MentorshipHandler exposes mentorship pairing, task and submission
// endpoints.
type MentorshipHandler struct {
	mentorships *usecase.MentorshipService
}

// NewMentorshipHandler constructs MentorshipHandler.
func NewMentorshipHandler(mentorships *usecase.MentorshipService) *MentorshipHandler {
	return &MentorshipHandler{mentorships: mentorships}
}

// RegisterRoutes binds mentorship routes onto the given groups. The
// mentorships group carries pairing endpoints, tasks carries the task
// and submission workflow. Assignment middleware runs ahead of the
// pairing handler only.
func (h *MentorshipHandler) RegisterRoutes(mentorships, tasks *gin.RouterGroup, assignMiddlewares ...gin.HandlerFunc) {
	assign := append([]gin.HandlerFunc{}, assignMiddlewares...)
	mentorships.POST("", append(assign, h.assign)...)
	mentorships.GET("/mentees/:mentorID", h.listMentees)
	mentorships.GET("/mentors/:menteeID", h.listMentors)

	tasks.POST("", h.createTask)
	tasks.GET("/:id", h.getTask)
	tasks.GET("", h.listTasks)
	tasks.DELETE("/:id", h.deleteTask)
	tasks.POST("/:id/submissions", h.submitTask)
	tasks.PATCH("/submissions/:id", h.gradeSubmission)
}

var mentorshipErrorCases = []ErrorCase{
	{Err: usecase.ErrPermissionDenied, Status: http.StatusForbidden, Message: "insufficient permissions"},
	{Err: usecase.ErrAlreadyAssigned, Status: http.StatusConflict, Message: "mentorship already exists"},
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
	{Err: usecase.ErrTaskNotFound, Status: http.StatusNotFound, Message: "task not found"},
	{Err: usecase.ErrSubmissionNotFound, Status: http.StatusNotFound, Message: "submission not found"},
}

func (h *MentorshipHandler) assign(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req AssignMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid mentorship payload"))
		return
	}

	mentorship, err := h.mentorships.AssignMentor(c.Request.Context(), actor, req.MentorID, req.MenteeID)
	if err != nil {
		RespondWithMappedError(c, err, mentorshipErrorCases, http.StatusInternalServerError, "failed to assign mentor")
		return
	}

	c.JSON(http.StatusCreated, toMentorshipResponse(mentorship))
}

func (h *MentorshipHandler) listMentees(c *gin.Context) {
	pairings, err := h.mentorships.ListMentees(c.Request.Context(), c.Param("mentorID"))
	if err != nil {
		RespondWithMappedError(c, err, mentorshipErrorCases, http.StatusInternalServerError, "failed to list mentees")
		return
	}

	responses := make([]MentorshipResponse, 0, len(pairings))
	for _, pairing := range pairings {
		responses = append(responses, toMentorshipResponse(pairing))
	}
	c.JSON(http.StatusOK, gin.H{"mentorships": responses})
}

func (h *MentorshipHandler) listMentors(c *gin.Context) {
	pairings, err := h.mentorships.ListMentors(c.Request.Context(), c.Param("menteeID"))
	if err != nil {
		RespondWithMappedError(c, err, mentorshipErrorCases, http.StatusInternalServerError, "failed to list mentors")
		return
	}

	responses := make([]MentorshipResponse, 0, len(pairings))
	for _, pairing := range pairings {
		responses = append(responses, toMentorshipResponse(pairing))
	}
	c.JSON(http.StatusOK, gin.H{"mentorships": responses})
}

func (h *MentorshipHandler) createTask(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid task payload"))
		return
	}

	task, err := h.mentorships.CreateTask(c.Request.Context(), actor, usecase.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		DueAt:       req.DueAt,
	})
	if err != nil {
		RespondWithMappedError(c, err, mentorshipErrorCases, http.StatusInternalServerError, "failed to create task")
		return
	}

	c.JSON(http.StatusCreated, toTaskResponse(task))
}

func (h *MentorshipHandler) getTask(c *gin.Context) {
	task, err := h.mentorships.GetTask(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, mentorshipErrorCases, http.StatusInternalServerError, "failed to load task")
		return
	}

	c.JSON(http.StatusOK, toTaskResponse(*task))
}

func (h *MentorshipHandler) listTasks(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	assignee := c.DefaultQuery("assignee_id", actor.ID)

	tasks, err := h.mentorships.ListTasks(c.Request.Context(), assignee)
	if err != nil {
		RespondWithMappedError(c, err, mentorshipErrorCases, http.StatusInternalServerError, "failed to list tasks")
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toTaskResponse(task))
	}
	c.JSON(http.StatusOK, gin.H{"tasks": responses})
}

func (h *MentorshipHandler) deleteTask(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	if err := h.mentorships.DeleteTask(c.Request.Context(), actor, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, mentorshipErrorCases, http.StatusInternalServerError, "failed to delete task")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *MentorshipHandler) submitTask(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req SubmitTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid submission payload"))
		return
	}

	submission, err := h.mentorships.SubmitTask(c.Request.Context(), actor, c.Param("id"), req.TaskURL, req.Comment)
	if err != nil {
		RespondWithMappedError(c, err, mentorshipErrorCases, http.StatusInternalServerError, "failed to submit task")
		return
	}

	c.JSON(http.StatusCreated, toSubmissionResponse(submission))
}

func (h *MentorshipHandler) gradeSubmission(c *gin.Context) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req GradeSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid grading payload"))
		return
	}

	status := domain.SubmissionStatus(req.Status)
	submission, err := h.mentorships.GradeSubmission(c.Request.Context(), actor, c.Param("id"), status, req.Grade, req.Comment)
	if err != nil {
		RespondWithMappedError(c, err, mentorshipErrorCases, http.StatusInternalServerError, "failed to grade submission")
		return
	}

	c.JSON(http.StatusOK, toSubmissionResponse(submission))
}
