package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirex/internal/api/handlers"
	"github.com/yoockh/hirex/internal/api/middleware"
	"github.com/yoockh/hirex/internal/auth"
)

type Deps struct {
	Tokens *auth.Tokens

	Auth        *handlers.AuthHandler
	Profile     *handlers.ProfileHandler
	Jobs        *handlers.JobHandler
	Companies   *handlers.CompanyHandler
	Application *handlers.ApplicationHandler
	Resume      *handlers.ResumeHandler
	WS          *handlers.WSHandler

	// ParseLimit guards /api/parseResume. Nil disables it.
	ParseLimit gin.HandlerFunc
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	api := r.Group("/api")
	authn := middleware.JWTAuth(d.Tokens)
	employer := middleware.RequireEmployer()

	api.POST("/auth/signup", d.Auth.Signup)
	api.POST("/auth/signin", d.Auth.Signin)

	// public job board
	api.GET("/jobs", d.Jobs.List)
	api.GET("/jobs/filters", d.Jobs.Filters)
	api.GET("/jobs/:id", d.Jobs.Get)
	api.GET("/companies/:id", d.Companies.Get)

	parse := []gin.HandlerFunc{authn}
	if d.ParseLimit != nil {
		parse = append(parse, d.ParseLimit)
	}
	api.POST("/parseResume", append(parse, d.Resume.Parse)...)

	private := api.Group("")
	private.Use(authn)

	private.GET("/users/profile", d.Profile.Me)
	private.PUT("/users/profile", d.Profile.Update)
	private.POST("/users/change-password", d.Auth.ChangePassword)
	private.GET("/users/applications", d.Application.ListMine)

	private.POST("/jobs", employer, d.Jobs.Create)
	private.PUT("/jobs/:id", employer, d.Jobs.Update)
	private.DELETE("/jobs/:id", employer, d.Jobs.Delete)

	private.POST("/jobs/:id/applications", d.Application.Submit)
	private.GET("/jobs/:id/applications", employer, d.Application.ListForJob)
	private.GET("/jobs/:id/applications/stats", employer, d.Application.Stats)

	private.GET("/applications/:id", d.Application.Get)
	private.PATCH("/applications/:id", employer, d.Application.UpdateStatus)
	private.GET("/applications/:id/resume", d.Application.ResumeURL)

	private.GET("/companies", d.Companies.List)
	private.POST("/companies", employer, d.Companies.Create)
	private.PUT("/companies/:id", employer, d.Companies.Update)
	private.DELETE("/companies/:id", employer, d.Companies.Delete)
	private.GET("/companies/:id/applications", employer, d.Application.ListForCompany)

	// WebSocket
	r.GET("/ws/jobs/:id/applications", authn, employer, d.WS.JobApplications)
}
