package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/middleware"
	"github.com/kendall-kelly/transit-pass-api/services"
)

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateRoleRequest represents the request body for changing a user's role
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UserController serves registration, login and user administration
type UserController struct {
	users   *services.UserService
	account *services.AccountService
}

// NewUserController creates a UserController
func NewUserController(users *services.UserService, account *services.AccountService) *UserController {
	return &UserController{users: users, account: account}
}

// Register handles POST /api/v1/users - creates an account
func (uc *UserController) Register(c *gin.Context) {
	var req services.RegisterUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := uc.users.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, user)
}

// Login handles POST /api/v1/users/login - exchanges credentials for a bearer token
func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := uc.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, result)
}

// GetMyProfile handles GET /api/v1/users/profile - gets the current user
func (uc *UserController) GetMyProfile(c *gin.Context) {
	user, err := middleware.GetCurrentUser(c)
	if err != nil {
		respondError(c, apperrors.Unauthorized("Could not extract user information"))
		return
	}

	respondOK(c, http.StatusOK, user)
}

// ListUsers handles GET /api/v1/users (admin)
func (uc *UserController) ListUsers(c *gin.Context) {
	users, err := uc.users.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, users)
}

// GetUser handles GET /api/v1/users/:id
func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	user, err := uc.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, user)
}

// UpdateRole handles PUT /api/v1/users/:id/role (admin)
func (uc *UserController) UpdateRole(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := uc.users.UpdateUserRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, user)
}

// GetProducts handles GET /api/v1/users/:id/products - every ticket, subscription
// and multi-ride card the user bought
func (uc *UserController) GetProducts(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	products, err := uc.account.GetProducts(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, products)
}
