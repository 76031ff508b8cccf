package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gamestore/internal/domain"
	"gamestore/internal/service"
)

// adminHome is the dashboard landing payload: who is signed in plus the same
// aggregates the stats endpoint serves.
func (h *Handler) adminHome(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	resp := gin.H{
		"users":         stats.Users,
		"games":         stats.Games,
		"orders":        stats.Orders,
		"revenue_cents": stats.RevenueCents,
	}
	if value, ok := c.Get(contextKeyUser); ok {
		if user, ok := value.(*domain.User); ok {
			resp["admin"] = userToResponse(user)
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) adminStats(c *gin.Context) {
	stats, err := h.orders.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":         stats.Users,
		"games":         stats.Games,
		"orders":        stats.Orders,
		"revenue_cents": stats.RevenueCents,
	})
}

func (h *Handler) adminListGames(c *gin.Context) {
	games, err := h.catalog.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list games"})
		return
	}
	resp := make([]GameResponse, len(games))
	for i := range games {
		resp[i] = h.gameToResponse(c, games[i])
	}
	c.JSON(http.StatusOK, resp)
}

type gameRequest struct {
	Title           string `json:"title" binding:"required"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	Genre           string `json:"genre"`
	PriceCents      int64  `json:"price_cents"`
	DiscountPercent int    `json:"discount_percent"`
	Published       bool   `json:"published"`
}

func (h *Handler) adminCreateGame(c *gin.Context) {
	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	game := &domain.Game{
		Title:           req.Title,
		Slug:            req.Slug,
		Description:     req.Description,
		Genre:           req.Genre,
		PriceCents:      req.PriceCents,
		DiscountPercent: req.DiscountPercent,
		Published:       req.Published,
	}

	game, err := h.catalog.Create(c.Request.Context(), game)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, h.gameToResponse(c, *game))
}

func (h *Handler) adminUpdateGame(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	var req gameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	game := &domain.Game{
		ID:              id,
		Title:           req.Title,
		Slug:            req.Slug,
		Description:     req.Description,
		Genre:           req.Genre,
		PriceCents:      req.PriceCents,
		DiscountPercent: req.DiscountPercent,
		Published:       req.Published,
	}

	if err := h.catalog.Update(c.Request.Context(), game); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.gameToResponse(c, *game))
}

func (h *Handler) adminDeleteGame(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrGameNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete game"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func (h *Handler) adminUploadCover(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storage service not configured"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid game id"})
		return
	}

	game, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	file, err := c.FormFile("cover")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cover file is required"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read cover file"})
		return
	}
	defer src.Close()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	key := fmt.Sprintf("%s/game-%d%s", strings.Trim(h.mediaPrefix, "/"), id, ext)

	uploadCtx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if _, err := h.storage.Upload(uploadCtx, h.bucket, key, src, file.Header.Get("Content-Type")); err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Errorf("upload cover for game %d", id)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not upload cover"})
		return
	}

	if err := h.catalog.SetCover(c.Request.Context(), id, key); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store cover key"})
		return
	}

	// the replaced cover object would otherwise linger in the bucket forever
	if game.CoverKey != "" && game.CoverKey != key {
		if err := h.storage.DeleteObject(uploadCtx, h.bucket, game.CoverKey); err != nil && h.logger != nil {
			h.logger.WithError(err).Warnf("remove old cover %s", game.CoverKey)
		}
	}

	c.JSON(http.StatusOK, gin.H{"cover_key": key})
}

func (h *Handler) adminDeleteMedia(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storage service not configured"})
		return
	}

	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "object key is required"})
		return
	}

	if err := h.storage.DeleteObject(c.Request.Context(), h.bucket, key); err != nil {
		if h.logger != nil {
			h.logger.WithError(err).Errorf("delete media object %s", key)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete object"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": key})
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func (h *Handler) adminListMedia(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "storage service not configured"})
		return
	}

	objects, err := h.storage.ListObjects(c.Request.Context(), h.bucket, h.mediaPrefix)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list media"})
		return
	}

	resp := make([]StorageObjectResponse, len(objects))
	for i, obj := range objects {
		resp[i] = StorageObjectResponse{Key: obj.Key, Size: obj.Size}
		if obj.LastModified != nil && !obj.LastModified.IsZero() {
			v := obj.LastModified.Format(time.RFC3339)
			resp[i].LastModified = &v
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) adminListOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
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
