package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	authapp "github.com/wyfcoding/corepnl/internal/auth/application"
	auth "github.com/wyfcoding/corepnl/internal/auth/domain"
	catalog "github.com/wyfcoding/corepnl/internal/catalog/domain"
	checkout "github.com/wyfcoding/corepnl/internal/checkout/domain"
	entitlement "github.com/wyfcoding/corepnl/internal/entitlement/domain"
	"github.com/wyfcoding/corepnl/internal/storefront/application"
	"github.com/wyfcoding/corepnl/internal/storefront/domain"
	"github.com/wyfcoding/corepnl/pkg/logger"
)

const (
	// VisitCookie 访问会话 cookie 名
	VisitCookie = "visit_id"
	visitKey    = "visit"
)

// Options 处理器选项
type Options struct {
	// SecureCookie 仅通过 HTTPS 发送 cookie
	SecureCookie bool
	// VisitTTL cookie 有效期
	VisitTTL time.Duration
	// LoginGuard 登录接口前置中间件，通常为限流
	LoginGuard gin.HandlerFunc
}

// StorefrontHandler HTTP 处理器
type StorefrontHandler struct {
	app  *application.Storefront
	opts Options
}

// NewStorefrontHandler 创建 HTTP 处理器
func NewStorefrontHandler(app *application.Storefront, opts Options) *StorefrontHandler {
	return &StorefrontHandler{app: app, opts: opts}
}

// RegisterRoutes 注册路由
func (h *StorefrontHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1", h.withVisit)
	{
		api.GET("/catalog", h.Browse)
		api.GET("/catalog/:type/:id/preview", h.Preview)

		api.GET("/cart", h.GetCart)
		api.POST("/cart/items", h.AddToCart)
		api.DELETE("/cart/items/:type/:id", h.RemoveFromCart)

		api.POST("/checkout", h.Checkout)

		api.GET("/purchases", h.Purchases)
		api.GET("/library", h.Library)
		api.GET("/library/:type/:id/access", h.Access)

		api.GET("/notices", h.Notices)

		authGroup := api.Group("/auth")
		authGroup.POST("/signup", h.Signup)
		if h.opts.LoginGuard != nil {
			authGroup.POST("/login", h.opts.LoginGuard, h.Login)
		} else {
			authGroup.POST("/login", h.Login)
		}
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", h.Me)
	}
}

// withVisit 解析 visit_id cookie 与 Bearer 令牌，把访问会话放入上下文
func (h *StorefrontHandler) withVisit(c *gin.Context) {
	id, _ := c.Cookie(VisitCookie)
	visit, created := h.app.Visit(id)
	if created {
		maxAge := int(h.opts.VisitTTL / time.Second)
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(VisitCookie, visit.ID, maxAge, "/", "", h.opts.SecureCookie, true)
	}

	ctx := logger.ContextWithVisitID(c.Request.Context(), visit.ID)
	c.Request = c.Request.WithContext(ctx)
	h.app.Attach(ctx, visit, bearerToken(c))

	c.Set(visitKey, visit)
	c.Next()
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func visitFrom(c *gin.Context) *domain.Visit {
	return c.MustGet(visitKey).(*domain.Visit)
}

// itemRef 解析路径中的 :type 与 :id
func itemRef(c *gin.Context) (int64, catalog.ItemType, bool) {
	t, err := catalog.ParseItemType(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, "", false
	}
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return 0, "", false
	}
	return id, t, true
}

// Browse 目录及每个商品的状态
func (h *StorefrontHandler) Browse(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Browse(c.Request.Context(), visitFrom(c)))
}

// Preview 试看地址
func (h *StorefrontHandler) Preview(c *gin.Context) {
	id, t, ok := itemRef(c)
	if !ok {
		return
	}
	url, err := h.app.Preview(c.Request.Context(), id, t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"preview_url": url})
}

// GetCart 当前购物车
func (h *StorefrontHandler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Cart(visitFrom(c)))
}

// AddToCartRequest 加入购物车请求
type AddToCartRequest struct {
	ID   int64  `json:"id" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// AddToCart 加入购物车；重复或已拥有时返回 200 且 added=false
func (h *StorefrontHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	t, err := catalog.ParseItemType(req.Type)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, added, err := h.app.AddToCart(c.Request.Context(), visitFrom(c), req.ID, t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added, "cart": view})
}

// RemoveFromCart 移除购物车条目
func (h *StorefrontHandler) RemoveFromCart(c *gin.Context) {
	id, t, ok := itemRef(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.app.RemoveFromCart(c.Request.Context(), visitFrom(c), id, t))
}

// Checkout 结账
func (h *StorefrontHandler) Checkout(c *gin.Context) {
	receipt, err := h.app.Checkout(c.Request.Context(), visitFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, receipt)
}

// Purchases 已加载的购买记录
func (h *StorefrontHandler) Purchases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"purchases": h.app.Purchases(visitFrom(c))})
}

// Library 我的课程与电子书
func (h *StorefrontHandler) Library(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.Library(c.Request.Context(), visitFrom(c)))
}

// Access 已拥有商品的文件地址
func (h *StorefrontHandler) Access(c *gin.Context) {
	id, t, ok := itemRef(c)
	if !ok {
		return
	}
	url, err := h.app.Access(c.Request.Context(), visitFrom(c), id, t)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"file_url": url})
}

// Notices 取出待展示提示
func (h *StorefrontHandler) Notices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"notices": h.app.Notices(visitFrom(c))})
}

// SignupRequest 注册请求
type SignupRequest struct {
	Fullname        string `json:"fullname"`
	Email           string `json:"email" binding:"required"`
	Address         string `json:"address"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password"`
}

// Signup 注册
func (h *StorefrontHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.app.Signup(c.Request.Context(), visitFrom(c), authapp.SignupCommand{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		Fullname:        req.Fullname,
		Address:         req.Address,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": application.MsgSignupSucceeded})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 登录，返回会话令牌与 {email}
func (h *StorefrontHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.app.Login(c.Request.Context(), visitFrom(c), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      session.Token,
		"expires_at": session.ExpiresAt,
		"user":       gin.H{"email": session.Email},
	})
}

// Logout 注销
func (h *StorefrontHandler) Logout(c *gin.Context) {
	if err := h.app.Logout(c.Request.Context(), visitFrom(c)); err != nil {
		logger.Error(c.Request.Context(), "Failed to revoke session", "error", err)
	}
	c.Status(http.StatusNoContent)
}

// Me 当前会话
func (h *StorefrontHandler) Me(c *gin.Context) {
	session := h.app.Session(visitFrom(c))
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": auth.ErrSessionInvalid.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":       gin.H{"email": session.Email},
		"expires_at": session.ExpiresAt,
	})
}

// fail 将领域错误映射为 HTTP 状态码
func (h *StorefrontHandler) fail(c *gin.Context, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error(c.Request.Context(), "Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidItemType),
		errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, auth.ErrPasswordMismatch),
		errors.Is(err, auth.ErrFullnameRequired),
		errors.Is(err, auth.ErrAddressRequired):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrSessionInvalid):
		return http.StatusUnauthorized
	case errors.Is(err, entitlement.ErrNotOwned):
		return http.StatusForbidden
	case errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrPreviewUnavailable),
		errors.Is(err, entitlement.ErrFileUnavailable):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrCommitFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
