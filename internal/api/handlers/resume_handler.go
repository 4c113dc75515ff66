package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirex/internal/services"
)

type ResumeHandler struct {
	svc services.ResumeService
}

func NewResumeHandler(svc services.ResumeService) *ResumeHandler {
	return &ResumeHandler{svc: svc}
}

type parseResumeRequest struct {
	ExtractedText string `json:"extractedText" binding:"required"`
}

// Parse returns the structured resume object as produced by the model.
func (h *ResumeHandler) Parse(c *gin.Context) {
	var req parseResumeRequest
	if !bindJSON(c, "ResumeHandler.Parse", &req) {
		return
	}

	out, err := h.svc.Structure(c.Request.Context(), req.ExtractedText)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", out)
}
