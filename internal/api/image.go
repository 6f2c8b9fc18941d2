package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipechef/backend/internal/service"
	"github.com/swipechef/backend/internal/types"
)

// ImageHandler manages recipe photos. Bytes never pass through the API.
type ImageHandler struct {
	images service.IImageService
}

func NewImageHandler(images service.IImageService) *ImageHandler {
	return &ImageHandler{images: images}
}

func (h *ImageHandler) RegisterRoutes(router *gin.RouterGroup) {
	images := router.Group("/recipes/:id/images")
	{
		images.POST("/presign", h.PresignUpload)
		images.POST("", h.AddImage)
		images.PUT("/:imageID/primary", h.SetPrimaryImage)
		images.DELETE("/:imageID", h.DeleteImage)
	}
}

func (h *ImageHandler) PresignUpload(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.PresignImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	upload, err := h.images.PresignUpload(c.Request.Context(), userID, id, req.Extension)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, upload)
}

func (h *ImageHandler) AddImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req types.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	image, err := h.images.AddImage(c.Request.Context(), userID, id, req.ObjectKey, req.IsPrimary)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image": image})
}

func (h *ImageHandler) SetPrimaryImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(c, "imageID")
	if !ok {
		return
	}
	if err := h.images.SetPrimaryImage(c.Request.Context(), userID, id, imageID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(c, "imageID")
	if !ok {
		return
	}
	if err := h.images.DeleteImage(c.Request.Context(), userID, id, imageID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
