package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirex/internal/models"
	"github.com/yoockh/hirex/internal/services"
	"github.com/yoockh/hirex/internal/utils"
)

type CompanyHandler struct {
	svc services.CompanyService
}

func NewCompanyHandler(svc services.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// companyForm binds both the multipart form and a JSON body.
type companyForm struct {
	Name        string   `form:"name" json:"name"`
	Description string   `form:"description" json:"description"`
	Industry    string   `form:"industry" json:"industry"`
	CompanyType string   `form:"companyType" json:"companyType"`
	CompanySize string   `form:"companySize" json:"companySize"`
	FoundedYear int      `form:"foundedYear" json:"foundedYear"`
	Website     string   `form:"website" json:"website"`
	Email       string   `form:"email" json:"email"`
	Phone       string   `form:"phone" json:"phone"`
	Address     string   `form:"address" json:"address"`
	City        string   `form:"city" json:"city"`
	State       string   `form:"state" json:"state"`
	ZipCode     string   `form:"zipCode" json:"zipCode"`
	Country     string   `form:"country" json:"country"`
	Culture     string   `form:"culture" json:"culture"`
	Benefits    []string `form:"benefits" json:"benefits"`
	LinkedIn    string   `form:"linkedin" json:"linkedin"`
	Twitter     string   `form:"twitter" json:"twitter"`
	Facebook    string   `form:"facebook" json:"facebook"`
	Instagram   string   `form:"instagram" json:"instagram"`
}

func (f companyForm) company() *models.Company {
	return &models.Company{
		Name:        f.Name,
		Description: f.Description,
		Industry:    f.Industry,
		CompanyType: f.CompanyType,
		CompanySize: f.CompanySize,
		FoundedYear: f.FoundedYear,
		Website:     f.Website,
		Email:       f.Email,
		Phone:       f.Phone,
		Address:     f.Address,
		City:        f.City,
		State:       f.State,
		ZipCode:     f.ZipCode,
		Country:     f.Country,
		Culture:     f.Culture,
		Benefits:    f.Benefits,
		SocialMedia: models.SocialMedia{
			LinkedIn:  f.LinkedIn,
			Twitter:   f.Twitter,
			Facebook:  f.Facebook,
			Instagram: f.Instagram,
		},
	}
}

func (h *CompanyHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var form companyForm
	if err := c.ShouldBind(&form); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CompanyHandler.Create", "invalid request body", err))
		return
	}

	logo, closer, err := formFile(c, "logo")
	if err != nil {
		writeError(c, err)
		return
	}
	if closer != nil {
		defer closer.Close()
	}

	company, err := h.svc.Create(c.Request.Context(), caller, form.company(), logo)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Company created successfully", "company": company})
}

func (h *CompanyHandler) List(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	page := utils.ParsePage(c.Query("page"), c.Query("limit"))
	companies, pg, err := h.svc.List(c.Request.Context(), caller, c.Query("userId"), page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies, "pagination": pg})
}

func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req services.CompanyUpdate
	if !bindJSON(c, "CompanyHandler.Update", &req) {
		return
	}

	company, err := h.svc.Update(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), caller, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Company deleted successfully"})
}
