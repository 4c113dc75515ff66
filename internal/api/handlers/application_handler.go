package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirex/internal/models"
	"github.com/yoockh/hirex/internal/services"
)

type ApplicationHandler struct {
	svc services.ApplicationService
}

func NewApplicationHandler(svc services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{svc: svc}
}

// Submit handles the multipart application form: "applicationData" JSON plus an optional "resume" file.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	file, closer, err := formFile(c, "resume")
	if err != nil {
		writeError(c, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	app, err := h.svc.Submit(c.Request.Context(), caller, c.Param("id"), services.SubmitInput{
		ApplicationData: c.PostForm("applicationData"),
		Resume:          file,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": app,
	})
}

func (h *ApplicationHandler) ListForJob(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	job, apps, err := h.svc.ListForJob(c.Request.Context(), caller, c.Param("id"), c.Query("sort"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job, "applications": apps})
}

func (h *ApplicationHandler) Stats(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	st, err := h.svc.StatsForJob(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *ApplicationHandler) Get(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	app, err := h.svc.Get(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

type updateStatusRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !bindJSON(c, "ApplicationHandler.UpdateStatus", &req) {
		return
	}

	app, err := h.svc.UpdateStatus(c.Request.Context(), caller, c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) ResumeURL(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	url, err := h.svc.ResumeURL(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (h *ApplicationHandler) ListForCompany(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	company, apps, err := h.svc.ListForCompany(c.Request.Context(), caller, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company, "applications": apps})
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	apps, err := h.svc.ListMine(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps})
}
