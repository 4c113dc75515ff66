package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/hirex/internal/services"
)

type AuthHandler struct {
	users services.UserService
}

func NewAuthHandler(users services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req services.SignupInput
	if !bindJSON(c, "AuthHandler.Signup", &req) {
		return
	}

	u, err := h.users.Signup(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": u})
}

func (h *AuthHandler) Signin(c *gin.Context) {
	var req services.SigninInput
	if !bindJSON(c, "AuthHandler.Signin", &req) {
		return
	}

	sess, err := h.users.Signin(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req services.ChangePasswordInput
	if !bindJSON(c, "AuthHandler.ChangePassword", &req) {
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), caller, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
