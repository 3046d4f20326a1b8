package documents

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"driver-portal/internal/shared/clock"
	"driver-portal/internal/shared/server/middleware"
	"driver-portal/internal/shared/server/respond"
	"driver-portal/internal/shared/storage/files"
)

// Handler wires HTTP handlers to the documents service.
type Handler struct {
	Svc   *Service
	Clock clock.Clock
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, clk clock.Clock) *Handler {
	return &Handler{Svc: svc, Clock: clk}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/documents", h.list)
	rg.POST("/documents/upload", h.upload)
	rg.POST("/files/:category/upload", h.uploadFile)
	rg.GET("/files/:category/:filename", h.download)
	rg.POST("/contract/sign", h.signContract)
}

func (h *Handler) list(c *gin.Context) {
	username := middleware.UsernameFromContext(c)

	overview, err := h.Svc.Listing(c.Request.Context(), username, h.Clock.Today())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}
	respond.OK(c, overview)
}

func (h *Handler) upload(c *gin.Context) {
	username := middleware.UsernameFromContext(c)

	docType := c.PostForm("doc_type")
	expiresOn := c.PostForm("expires_on")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read file", nil)
		return
	}
	defer f.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), username, docType, expiresOn, fileHeader.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file too large (max 25MB)", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid upload", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store document", nil)
		}
		return
	}

	respond.JSON(c, http.StatusCreated, doc)
}

func (h *Handler) uploadFile(c *gin.Context) {
	username := middleware.UsernameFromContext(c)
	category := c.Param("category")
	if !files.ValidCategory(category) || category == files.CategoryDocs {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown category", nil)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read file", nil)
		return
	}
	defer f.Close()

	storedName, err := h.Svc.UploadFile(c.Request.Context(), username, category, fileHeader.Filename, f)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file too large (max 25MB)", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store file", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"name": storedName})
}

type signRequest struct {
	FullName string `json:"full_name"`
	Agree    bool   `json:"agree"`
}

func (h *Handler) signContract(c *gin.Context) {
	username := middleware.UsernameFromContext(c)

	var req signRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if !req.Agree {
		respond.Error(c, http.StatusBadRequest, "validation_error", "agreement must be confirmed", nil)
		return
	}

	name, err := h.Svc.SignContract(c.Request.Context(), username, req.FullName, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "full name is required", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to record agreement", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"name": name})
}

func (h *Handler) download(c *gin.Context) {
	username := middleware.UsernameFromContext(c)
	category := c.Param("category")
	if !files.ValidCategory(category) {
		respond.Error(c, http.StatusNotFound, "not_found", "unknown category", nil)
		return
	}
	fileName := c.Param("filename")

	rc, err := h.Svc.Open(c.Request.Context(), username, category, fileName)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "file not found", nil)
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
