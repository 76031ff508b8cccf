package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"gamestore/internal/auth"
	"gamestore/internal/domain"
	"gamestore/internal/service"
	"gamestore/internal/storage"
)

const cartCookieName = "gamestore_cart"

// Handler wires HTTP routes to domain services.
type Handler struct {
	users   service.UserService
	catalog service.CatalogService
	carts   service.CartService
	orders  service.OrderService
	codec   auth.TokenCodec
	storage storage.Service

	bucket       string
	mediaPrefix  string
	cookieName   string
	cookieDomain string
	tokenTTL     time.Duration
	production   bool
	logger       *logrus.Logger
}

// HandlerConfig collects everything the handler needs; zero values disable the
// optional pieces (storage).
type HandlerConfig struct {
	Users   service.UserService
	Catalog service.CatalogService
	Carts   service.CartService
	Orders  service.OrderService
	Codec   auth.TokenCodec
	Storage storage.Service

	Bucket       string
	MediaPrefix  string
	CookieName   string
	CookieDomain string
	TokenTTL     time.Duration
	Production   bool
	Logger       *logrus.Logger
}

func NewHandler(cfg HandlerConfig) *Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = "gamestore_session"
	}
	tokenTTL := cfg.TokenTTL
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Handler{
		users:        cfg.Users,
		catalog:      cfg.Catalog,
		carts:        cfg.Carts,
		orders:       cfg.Orders,
		codec:        cfg.Codec,
		storage:      cfg.Storage,
		bucket:       cfg.Bucket,
		mediaPrefix:  cfg.MediaPrefix,
		cookieName:   cookieName,
		cookieDomain: cfg.CookieDomain,
		tokenTTL:     tokenTTL,
		production:   cfg.Production,
		logger:       cfg.Logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())
	router.Use(h.guard())

	router.GET("/", h.home)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"ok": "ok"})
		})

		api.POST("/auth/register", h.register)
		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)
		api.GET("/auth/me", h.me)

		api.GET("/games", h.listGames)
		api.GET("/games/:slug", h.getGame)

		api.GET("/cart", h.getCart)
		api.POST("/cart/items", h.addCartItem)
		api.DELETE("/cart/items/:gameID", h.removeCartItem)

		api.POST("/orders", h.checkout)
		api.GET("/orders", h.listOrders)
	}

	admin := router.Group(adminPathPrefix, h.requireAdmin())
	{
		admin.GET("", h.adminHome)
		admin.GET("/stats", h.adminStats)
		admin.GET("/games", h.adminListGames)
		admin.POST("/games", h.adminCreateGame)
		admin.PUT("/games/:id", h.adminUpdateGame)
		admin.DELETE("/games/:id", h.adminDeleteGame)
		admin.POST("/games/:id/cover", h.adminUploadCover)
		admin.GET("/media", h.adminListMedia)
		admin.DELETE("/media/*key", h.adminDeleteMedia)
		admin.GET("/orders", h.adminListOrders)
	}
}

func (h *Handler) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"store": "gamestore", "status": "open"})
}

func (h *Handler) listGames(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	genre := c.Query("genre")

	games, total, err := h.catalog.ListPublished(c.Request.Context(), page, pageSize, genre)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list games"})
		return
	}

	resp := make([]GameResponse, len(games))
	for i := range games {
		resp[i] = h.gameToResponse(c, games[i])
	}
	c.JSON(http.StatusOK, gin.H{
		"games": resp,
		"total": total,
		"page":  page,
	})
}

func (h *Handler) getGame(c *gin.Context) {
	game, err := h.catalog.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load game"})
		return
	}
	c.JSON(http.StatusOK, h.gameToResponse(c, *game))
}

// currentCart loads the cart referenced by the cart cookie, creating a fresh
// cart (and setting the cookie) when there is none or the reference went stale.
func (h *Handler) currentCart(c *gin.Context, create bool) (*domain.Cart, error) {
	if id, err := c.Cookie(cartCookieName); err == nil && id != "" {
		cart, err := h.carts.Get(c.Request.Context(), id)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, service.ErrCartNotFound) {
			return nil, err
		}
	}
	if !create {
		return nil, service.ErrCartNotFound
	}

	cart, err := h.carts.Create(c.Request.Context())
	if err != nil {
		return nil, err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cartCookieName, cart.ID, int((30 * 24 * time.Hour).Seconds()), "/", h.cookieDomain, h.production, true)
	return cart, nil
}

func (h *Handler) getCart(c *gin.Context) {
	cart, err := h.currentCart(c, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}
	c.JSON(http.StatusOK, h.cartToResponse(c, cart))
}

type addCartItemRequest struct {
	GameID   int64 `json:"game_id" binding:"required"`
	Quantity int   `json:"quantity"`
}

func (h *Handler) addCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	cart, err := h.currentCart(c, true)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}

	cart, err = h.carts.AddItem(c.Request.Context(), cart.ID, req.GameID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGameNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		case errors.Is(err, service.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		}
		return
	}
	c.JSON(http.StatusOK, h.cartToResponse(c, cart))
}

func (h *Handler) removeCartItem(c *gin.Context) {
	gameID, err := strconv.ParseInt(c.Param("gameID"), 10, 64)
	if err != nil || gameID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	cart, err := h.currentCart(c, false)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}

	cart, err = h.carts.RemoveItem(c.Request.Context(), cart.ID, gameID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		return
	}
	c.JSON(http.StatusOK, h.cartToResponse(c, cart))
}

func (h *Handler) checkout(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	cart, err := h.currentCart(c, false)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}

	order, err := h.orders.Checkout(c.Request.Context(), cart.ID, session.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartEmpty), errors.Is(err, service.ErrCartNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": "cart is empty"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not place order"})
		}
		return
	}
	c.JSON(http.StatusCreated, orderToResponse(*order))
}

func (h *Handler) listOrders(c *gin.Context) {
	session, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	orders, err := h.orders.ListByUser(c.Request.Context(), session.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list orders"})
		return
	}

	resp := make([]OrderResponse, len(orders))
	for i := range orders {
		resp[i] = orderToResponse(orders[i])
	}
	c.JSON(http.StatusOK, resp)
}

type GameResponse struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	Genre           string `json:"genre"`
	PriceCents      int64  `json:"price_cents"`
	DiscountPercent int    `json:"discount_percent"`
	FinalPriceCents int64  `json:"final_price_cents"`
	CoverURL        string `json:"cover_url,omitempty"`
	Published       bool   `json:"published"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

type CartItemResponse struct {
	GameID   int64 `json:"game_id"`
	Quantity int   `json:"quantity"`
}

type CartResponse struct {
	ID    string             `json:"id"`
	Items []CartItemResponse `json:"items"`
}

type OrderItemResponse struct {
	GameID         int64  `json:"game_id"`
	Title          string `json:"title"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
}

type OrderResponse struct {
	ID         int64               `json:"id"`
	Reference  string              `json:"reference"`
	Status     domain.OrderStatus  `json:"status"`
	TotalCents int64               `json:"total_cents"`
	Items      []OrderItemResponse `json:"items"`
	CreatedAt  string              `json:"created_at"`
}

type UserResponse struct {
	ID    int64       `json:"id"`
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  domain.Role `json:"role"`
}

func (h *Handler) gameToResponse(c *gin.Context, game domain.Game) GameResponse {
	resp := GameResponse{
		ID:              game.ID,
		Title:           game.Title,
		Slug:            game.Slug,
		Description:     game.Description,
		Genre:           game.Genre,
		PriceCents:      game.PriceCents,
		DiscountPercent: game.DiscountPercent,
		FinalPriceCents: game.EffectivePriceCents(),
		Published:       game.Published,
		CreatedAt:       game.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       game.UpdatedAt.Format(time.RFC3339),
	}
	if game.CoverKey != "" && h.storage != nil && h.bucket != "" {
		url, err := h.storage.GetObjectURL(c.Request.Context(), h.bucket, game.CoverKey, 15*time.Minute)
		if err == nil {
			resp.CoverURL = url
		} else if h.logger != nil {
			h.logger.WithError(err).Warnf("presign cover for game %d", game.ID)
		}
	}
	return resp
}

func (h *Handler) cartToResponse(_ *gin.Context, cart *domain.Cart) CartResponse {
	resp := CartResponse{
		ID:    cart.ID,
		Items: make([]CartItemResponse, len(cart.Items)),
	}
	for i := range cart.Items {
		resp.Items[i] = CartItemResponse{
			GameID:   cart.Items[i].GameID,
			Quantity: cart.Items[i].Quantity,
		}
	}
	return resp
}

func orderToResponse(order domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:         order.ID,
		Reference:  order.Reference,
		Status:     order.Status,
		TotalCents: order.TotalCents,
		Items:      make([]OrderItemResponse, len(order.Items)),
		CreatedAt:  order.CreatedAt.Format(time.RFC3339),
	}
	for i := range order.Items {
		resp.Items[i] = OrderItemResponse{
			GameID:         order.Items[i].GameID,
			Title:          order.Items[i].Title,
			UnitPriceCents: order.Items[i].UnitPriceCents,
			Quantity:       order.Items[i].Quantity,
		}
	}
	return resp
}

func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}
}
