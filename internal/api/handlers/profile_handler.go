package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirex/internal/services"
	"github.com/yoockh/hirex/internal/utils"
)

type ProfileHandler struct {
	svc services.ProfileService
}

func NewProfileHandler(svc services.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

func (h *ProfileHandler) Me(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	p, err := h.svc.GetMe(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// Update accepts either a JSON body or a multipart form with an optional "resume" file.
func (h *ProfileHandler) Update(c *gin.Context) {
	const op = "ProfileHandler.Update"

	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req services.ProfileUpdate
	var file *services.FileInput

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req = services.ProfileUpdate{
			Name:         c.PostForm("name"),
			PhoneNumber:  c.PostForm("phoneNumber"),
			Bio:          c.PostForm("bio"),
			ProfilePhoto: c.PostForm("profilePhoto"),
		}
		if v, ok := c.GetPostFormArray("skills"); ok {
			req.Skills = v
		}
		if v, ok := c.GetPostFormArray("socialLinks"); ok {
			req.SocialLinks = v
		}
		if raw := c.PostForm("structuredResume"); raw != "" {
			req.StructuredResume = json.RawMessage(raw)
		}

		f, closer, err := formFile(c, "resume")
		if err != nil {
			writeError(c, err)
			return
		}
		if closer != nil {
			defer closer.Close()
		}
		file = f
	} else if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid request body", err))
		return
	}

	view, err := h.svc.Update(c.Request.Context(), caller, req, file)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
