package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yourusername/stellar-checkout/middleware"
	"github.com/yourusername/stellar-checkout/models"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type OnboardRequest struct {
	Name            string `json:"name" binding:"required"`
	WalletAddress   string `json:"wallet_address" binding:"required"`
	LogoURL         string `json:"logo_url"`
	DefaultCurrency string `json:"default_currency"`
}

// Onboard registers (or updates) a merchant profile and issues tokens for
// the dashboard.
func (h *CheckoutHandler) Onboard(c *gin.Context) {
	var req OnboardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.stellarClient.ValidateAccount(req.WalletAddress); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Invalid wallet address: %v", err)})
		return
	}

	currency := req.DefaultCurrency
	if currency == "" {
		currency = "USD"
	}
	merchant := &models.Merchant{
		Name:            req.Name,
		WalletAddress:   req.WalletAddress,
		LogoURL:         req.LogoURL,
		DefaultCurrency: currency,
	}
	if err := h.store.SaveMerchant(merchant); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save merchant profile"})
		return
	}

	accessToken, err := middleware.GenerateToken(merchant.ID, merchant.WalletAddress, h.cfg.JWTSecret, accessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}
	refreshToken, err := middleware.GenerateToken(merchant.ID, merchant.WalletAddress, h.cfg.JWTRefreshSecret, refreshTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"merchant":      merchant,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// Me returns the authenticated merchant's profile from the cache store.
func (h *CheckoutHandler) Me(c *gin.Context) {
	merchantID, _, ok := merchantFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	merchant, err := h.store.MerchantByID(merchantID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Merchant not found"})
		return
	}
	c.JSON(http.StatusOK, merchant)
}

// RefreshToken request body
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh handles token refresh
func (h *CheckoutHandler) Refresh(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Validate refresh token using the refresh secret
	claims := &middleware.Claims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.cfg.JWTRefreshSecret), nil
	})
	if err != nil || !token.Valid {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token", "code": "InvalidToken"})
		return
	}

	// The merchant must still exist in the cache store
	merchant, err := h.store.MerchantByID(claims.MerchantID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Merchant not found"})
		return
	}

	accessToken, err := middleware.GenerateToken(merchant.ID, merchant.WalletAddress, h.cfg.JWTSecret, accessTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}
	refreshToken, err := middleware.GenerateToken(merchant.ID, merchant.WalletAddress, h.cfg.JWTRefreshSecret, refreshTokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}
