package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AliMohammadiiii/PRS-sub001/internal/model"
	"github.com/AliMohammadiiii/PRS-sub001/internal/service"
)

type TemplateHandler struct {
	templates *service.TemplateService
}

func NewTemplateHandler(templates *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

// EffectiveTemplate resolves the form+workflow pair for (team, purchase
// type). 404 tells clients to try the legacy per-team endpoint.
func (h *TemplateHandler) EffectiveTemplate(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	tpl, err := h.templates.Resolve(teamID, c.Query("purchase_type"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(tpl))
}

// LegacyTemplate serves the pre-binding per-team default template. Kept for
// clients that have not migrated to purchase-type-aware resolution.
func (h *TemplateHandler) LegacyTemplate(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	tpl, err := h.templates.LegacyTemplate(teamID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.Success(tpl))
}

func (h *TemplateHandler) ListFormTemplates(c *gin.Context) {
	templates, err := h.templates.ListFormTemplates()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(templates))
}

func (h *TemplateHandler) GetFormTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tpl, err := h.templates.GetFormTemplate(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(tpl))
}

func (h *TemplateHandler) SaveFormTemplate(c *gin.Context) {
	var tpl model.FormTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}

	if userID, exists := c.Get("user_id"); exists && tpl.CreatedBy == "" {
		tpl.CreatedBy, _ = userID.(string)
	}

	if err := h.templates.SaveFormTemplate(&tpl); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(tpl))
}

func (h *TemplateHandler) DeleteFormTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.templates.DeleteFormTemplate(id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}

func (h *TemplateHandler) ListWorkflowTemplates(c *gin.Context) {
	templates, err := h.templates.ListWorkflowTemplates()
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(templates))
}

func (h *TemplateHandler) GetWorkflowTemplate(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tpl, err := h.templates.GetWorkflowTemplate(id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(tpl))
}

func (h *TemplateHandler) SaveWorkflowTemplate(c *gin.Context) {
	var tpl model.WorkflowTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}

	if userID, exists := c.Get("user_id"); exists && tpl.CreatedBy == "" {
		tpl.CreatedBy, _ = userID.(string)
	}

	if err := h.templates.SaveWorkflowTemplate(&tpl); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(tpl))
}

func (h *TemplateHandler) ListBindings(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	bindings, err := h.templates.ListBindings(teamID)
	if err != nil {
		model.HandleError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(bindings))
}

func (h *TemplateHandler) SaveBinding(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var binding model.TemplateBinding
	if err := c.ShouldBindJSON(&binding); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}
	binding.TeamID = teamID

	if err := h.templates.SaveBinding(&binding); err != nil {
		model.HandleError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(binding))
}

func (h *TemplateHandler) DeleteBinding(c *gin.Context) {
	id, ok := pathID(c, "binding_id")
	if !ok {
		return
	}

	if err := h.templates.DeleteBinding(id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.Success(nil))
}
