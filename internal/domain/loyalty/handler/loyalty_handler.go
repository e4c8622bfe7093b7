package handler

import (
	"errors"
	"io"
	"loyalty_rewards/internal/domain/loyalty/model"
	"loyalty_rewards/internal/domain/loyalty/service"
	"loyalty_rewards/internal/pkg/middleware"
	"loyalty_rewards/internal/pkg/otp"
	"loyalty_rewards/internal/pkg/qrcode"
	"loyalty_rewards/pkg/response"
	"loyalty_rewards/pkg/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type LoyaltyHandler struct {
	shops   service.ShopService
	rewards service.RewardsService
	qr      qrcode.Generator
	log     *zap.Logger
}

func NewLoyaltyHandler(shops service.ShopService, rewards service.RewardsService, qr qrcode.Generator, log *zap.Logger) *LoyaltyHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoyaltyHandler{shops: shops, rewards: rewards, qr: qr, log: log}
}

// CreateShopInput 创建门店输入
type CreateShopInput struct {
	Name   string `json:"name" binding:"required"`
	Slug   string `json:"slug" binding:"required"`
	Secret string `json:"secret" binding:"required"`
	Meta   *int   `json:"meta"`
	Emoji  string `json:"emoji"`
}

// SecretInput 员工凭证输入，使用员工令牌时可为空
type SecretInput struct {
	Secret string `json:"secret"`
}

// EarnInput 积分输入
type EarnInput struct {
	CustomerID string `json:"customerId" binding:"required"`
	Code       string `json:"code" binding:"required"`
}

// RedeemInput 兑换输入
type RedeemInput struct {
	CustomerID string `json:"customerId" binding:"required"`
	Secret     string `json:"secret"`
}

// StaffTokenInput 员工令牌输入
type StaffTokenInput struct {
	Secret string `json:"secret" binding:"required"`
}

// CreateShop 创建门店
// @Summary 创建门店
// @Tags Loyalty
// @Accept json
// @Produce json
// @Param input body CreateShopInput true "门店信息"
// @Success 201 {object} model.Shop
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /shops [post]
func (h *LoyaltyHandler) CreateShop(c *gin.Context) {
	var input CreateShopInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	shop, err := h.shops.CreateShop(c.Request.Context(), service.CreateShopInput{
		Name:      input.Name,
		Slug:      input.Slug,
		Secret:    input.Secret,
		Threshold: input.Meta,
		Emoji:     input.Emoji,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, shop)
}

// GetShop 获取门店
// @Summary 获取门店
// @Tags Loyalty
// @Produce json
// @Param slug path string true "门店标识"
// @Success 200 {object} model.Shop
// @Failure 404 {object} response.Response
// @Router /shops/{slug} [get]
func (h *LoyaltyHandler) GetShop(c *gin.Context) {
	shop, err := h.shops.GetShop(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, shop)
}

// GetCustomer 查询顾客积分，新顾客返回全 0
// @Summary 查询顾客积分
// @Tags Loyalty
// @Produce json
// @Param slug path string true "门店标识"
// @Param customerId path string true "顾客标识"
// @Success 200 {object} model.CustomerAccount
// @Failure 404 {object} response.Response
// @Router /shops/{slug}/customers/{customerId} [get]
func (h *LoyaltyHandler) GetCustomer(c *gin.Context) {
	account, err := h.rewards.GetCustomer(c.Request.Context(), c.Param("slug"), c.Param("customerId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, account)
}

// GenerateCode 生成当前购买码
// @Summary 生成购买码
// @Tags Loyalty
// @Accept json
// @Produce json
// @Param slug path string true "门店标识"
// @Param input body SecretInput false "门店 secret（或使用员工令牌）"
// @Success 200 {object} otp.Code
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Security BearerAuth
// @Router /shops/{slug}/code [post]
func (h *LoyaltyHandler) GenerateCode(c *gin.Context) {
	code, ok := h.currentCode(c)
	if !ok {
		return
	}
	response.Success(c, code)
}

// GenerateQRCode 以 PNG 二维码返回当前购买码
// @Summary 购买码二维码
// @Tags Loyalty
// @Accept json
// @Produce png
// @Param slug path string true "门店标识"
// @Param input body SecretInput false "门店 secret（或使用员工令牌）"
// @Success 200 {file} binary
// @Failure 401 {object} response.Response
// @Security BearerAuth
// @Router /shops/{slug}/code/qr [post]
func (h *LoyaltyHandler) GenerateQRCode(c *gin.Context) {
	code, ok := h.currentCode(c)
	if !ok {
		return
	}

	slug, err := service.NormalizeSlug(c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	png, err := h.qr.Generate(slug, code.Value)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Header("X-Code-Valid-Until", code.ValidUntil.UTC().Format(time.RFC3339))
	c.Data(http.StatusOK, "image/png", png)
}

func (h *LoyaltyHandler) currentCode(c *gin.Context) (*otp.Code, bool) {
	var input SecretInput
	if !bindOptionalJSON(c, &input) {
		return nil, false
	}

	slug := c.Param("slug")
	staff, err := staffFor(c, slug)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}

	var code *otp.Code
	if staff {
		code, err = h.rewards.GenerateCodeForStaff(c.Request.Context(), slug)
	} else {
		code, err = h.rewards.GenerateCode(c.Request.Context(), slug, input.Secret)
	}
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return code, true
}

// EarnPoint 使用购买码积分
// @Summary 积分
// @Tags Loyalty
// @Accept json
// @Produce json
// @Param slug path string true "门店标识"
// @Param input body EarnInput true "顾客与购买码"
// @Success 200 {object} model.EarnResult
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 429 {object} response.Response
// @Router /shops/{slug}/earn [post]
func (h *LoyaltyHandler) EarnPoint(c *gin.Context) {
	var input EarnInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	result, err := h.rewards.EarnPoint(c.Request.Context(), c.Param("slug"), input.CustomerID, input.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, result)
}

// RedeemReward 兑换奖励 (员工)
// @Summary 兑换奖励
// @Tags Loyalty
// @Accept json
// @Produce json
// @Param slug path string true "门店标识"
// @Param input body RedeemInput true "顾客与门店 secret"
// @Success 200 {object} model.RedeemResult
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 429 {object} response.Response
// @Security BearerAuth
// @Router /shops/{slug}/redeem [post]
func (h *LoyaltyHandler) RedeemReward(c *gin.Context) {
	var input RedeemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	slug := c.Param("slug")
	staff, err := staffFor(c, slug)
	if err != nil {
		h.fail(c, err)
		return
	}

	ctx := c.Request.Context()
	var result *model.RedeemResult
	if staff {
		result, err = h.rewards.RedeemRewardForStaff(ctx, slug, input.CustomerID)
	} else {
		result, err = h.rewards.RedeemReward(ctx, slug, input.CustomerID, input.Secret)
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, result)
}

// IssueStaffToken 用门店 secret 换取员工令牌
// @Summary 员工令牌
// @Tags Loyalty
// @Accept json
// @Produce json
// @Param slug path string true "门店标识"
// @Param input body StaffTokenInput true "门店 secret"
// @Success 200 {object} model.StaffToken
// @Failure 401 {object} response.Response
// @Router /shops/{slug}/staff/token [post]
func (h *LoyaltyHandler) IssueStaffToken(c *gin.Context) {
	var input StaffTokenInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	token, err := h.rewards.IssueStaffToken(c.Request.Context(), c.Param("slug"), input.Secret)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, token)
}

// ListActivity 顾客积分动态
// @Summary 积分动态
// @Tags Loyalty
// @Produce json
// @Param slug path string true "门店标识"
// @Param customerId path string true "顾客标识"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} utils.PageResult
// @Router /shops/{slug}/customers/{customerId}/activity [get]
func (h *LoyaltyHandler) ListActivity(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	page, err := h.rewards.ListActivity(c.Request.Context(), c.Param("slug"), c.Param("customerId"), &p)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, page)
}

// bindOptionalJSON 允许空请求体
func bindOptionalJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return false
	}
	return true
}

// staffFor 请求携带员工令牌时，令牌门店必须与路径一致
func staffFor(c *gin.Context, slug string) (bool, error) {
	tokenShop, ok := middleware.StaffShop(c)
	if !ok {
		return false, nil
	}
	normalized, err := service.NormalizeSlug(slug)
	if err != nil {
		return false, err
	}
	if tokenShop != normalized {
		return false, service.ErrUnauthorized
	}
	return true, nil
}

// fail 业务错误映射为 HTTP 状态码与业务码；内部错误只记录日志，不向调用方暴露细节
func (h *LoyaltyHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
	case errors.Is(err, service.ErrShopExists):
		response.Error(c, http.StatusConflict, response.ErrShopExists, "Shop already exists")
	case errors.Is(err, service.ErrShopNotFound):
		response.Error(c, http.StatusNotFound, response.ErrShopNotFound, "Shop not found")
	case errors.Is(err, service.ErrCustomerNotFound):
		response.Error(c, http.StatusNotFound, response.ErrCustomerNotFound, "Customer not found")
	case errors.Is(err, service.ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, response.ErrSecretInvalid, "Invalid secret")
	case errors.Is(err, service.ErrCodeAlreadyUsed):
		response.Error(c, http.StatusBadRequest, response.ErrCodeUsed, "Code already used")
	case errors.Is(err, service.ErrInvalidCode):
		response.Error(c, http.StatusBadRequest, response.ErrCodeInvalid, "Invalid or expired code")
	case errors.Is(err, service.ErrNoRewardAvailable):
		response.Error(c, http.StatusBadRequest, response.ErrNoRewardAvailable, "No reward available")
	default:
		h.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("trace_id", middleware.TraceID(c)),
			zap.Error(err),
		)
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, response.ErrServerInternal, "Internal server error")
	}
}
