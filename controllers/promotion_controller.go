package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/transit-pass-api/apperrors"
	"github.com/kendall-kelly/transit-pass-api/services"
	"github.com/shopspring/decimal"
)

// ValidatePromotionRequest represents the request body for checking a promotion code
type ValidatePromotionRequest struct {
	Code string `json:"code" binding:"required"`
}

// PromotionValidity is returned for a usable promotion code
type PromotionValidity struct {
	Discount decimal.Decimal `json:"discount"`
	IsActive bool            `json:"isActive"`
}

// PromotionController serves promotion code endpoints
type PromotionController struct {
	promotions *services.PromotionService
}

// NewPromotionController creates a PromotionController
func NewPromotionController(promotions *services.PromotionService) *PromotionController {
	return &PromotionController{promotions: promotions}
}

// Validate handles POST /api/v1/promocodes/validate
func (pc *PromotionController) Validate(c *gin.Context) {
	var req ValidatePromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	promo, err := pc.promotions.ValidateCode(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err)
		return
	}
	if promo == nil {
		respondError(c, apperrors.New("INVALID_PROMOTION", "Invalid or inactive promotion code.", http.StatusBadRequest))
		return
	}

	respondOK(c, http.StatusOK, PromotionValidity{Discount: promo.DiscountAmount, IsActive: promo.IsActive})
}

// Create handles POST /api/v1/promocodes (admin)
func (pc *PromotionController) Create(c *gin.Context) {
	var req services.CreatePromotionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	promo, err := pc.promotions.CreatePromotion(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, promo)
}

// List handles GET /api/v1/promocodes (admin)
func (pc *PromotionController) List(c *gin.Context) {
	promos, err := pc.promotions.GetAllPromotions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, promos)
}
