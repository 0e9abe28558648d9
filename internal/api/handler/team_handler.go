package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/repository"
	"github.com/AliMohammadiiii/PRS-sub001/internal/workflow"
)

type TeamHandler struct {
	teams *repository.TeamRepository
}

func NewTeamHandler(teams *repository.TeamRepository) *TeamHandler {
	return &TeamHandler{teams: teams}
}

func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teams.List()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(teams))
}

func (h *TeamHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	team, err := h.teams.Get(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(team))
}

func (h *TeamHandler) Save(c *gin.Context) {
	var team model.Team
	if err := c.ShouldBindJSON(&team); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}
	if team.Name == "" {
		c.JSON(http.StatusBadRequest, model.Error(400, "team name is required"))
		return
	}

	if err := h.teams.Save(&team); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(team))
}

func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.teams.Delete(id); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

func (h *TeamHandler) Members(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	members, err := h.teams.TeamMembers(id)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(members))
}

// memberRolesRequest rewrites one user's role assignments: an optional
// blanket role for all teams plus per-team overrides.
type memberRolesRequest struct {
	UserID      string `json:"user_id" binding:"required"`
	BlanketRole string `json:"blanket_role"`
	Overrides   []struct {
		TeamID uint   `json:"team_id" binding:"required"`
		Role   string `json:"role" binding:"required"`
	} `json:"overrides"`
}

func (h *TeamHandler) AssignRoles(c *gin.Context) {
	var req memberRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}

	for _, role := range append([]string{req.BlanketRole}, rolesOf(req)...) {
		if role != "" && !knownWorkflowRole(role) {
			c.JSON(http.StatusBadRequest, model.Error(400, fmt.Sprintf("unknown role: %s", role)))
			return
		}
	}

	overrides := make([]model.TeamMember, 0, len(req.Overrides))
	for _, o := range req.Overrides {
		teamID := o.TeamID
		overrides = append(overrides, model.TeamMember{TeamID: &teamID, Role: o.Role})
	}

	if err := h.teams.ReplaceMemberRoles(req.UserID, req.BlanketRole, overrides); err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	members, err := h.teams.MembersOf(req.UserID)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(members))
}

// MyRoles reports the caller's effective role per team after the
// blanket/override merge.
func (h *TeamHandler) MyRoles(c *gin.Context) {
	userID, _ := c.Get("user_id")

	members, err := h.teams.MembersOf(fmt.Sprintf("%v", userID))
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	teamIDs, err := h.teams.ListAllIDs()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(model.EffectiveRoles(members, teamIDs)))
}

func rolesOf(req memberRolesRequest) []string {
	roles := make([]string, 0, len(req.Overrides))
	for _, o := range req.Overrides {
		roles = append(roles, o.Role)
	}
	return roles
}

func knownWorkflowRole(role string) bool {
	switch workflow.Role(role) {
	case workflow.RoleRequestor, workflow.RoleApprover, workflow.RoleFinance:
		return true
	}
	return false
}
