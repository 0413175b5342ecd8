package handler

import (
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"docuchat/internal/transport/http/response"
)

const maxUploadSize = 10 << 20 // 10 MB

type DocumentHandler struct {
	store *Store
}

func NewDocumentHandler(store *Store) *DocumentHandler {
	return &DocumentHandler{store: store}
}

func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, 400, "No file provided")
		return
	}
	if file.Size > maxUploadSize {
		response.Error(c, 400, "File too large (max 10MB)")
		return
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		response.Error(c, 400, "Only PDF files are supported")
		return
	}

	doc := h.store.AddDocument(file.Filename, "application/pdf")
	response.OK(c, gin.H{
		"document_id": doc.ID,
		"title":       doc.Title,
	})
}

func (h *DocumentHandler) Status(c *gin.Context) {
	title, status, progress, ok := h.store.StepStatus(c.Param("id"))
	if !ok {
		response.Error(c, 404, "document not found")
		return
	}
	response.OK(c, gin.H{
		"title":               title,
		"processing_status":   status,
		"processing_progress": progress,
	})
}

func (h *DocumentHandler) List(c *gin.Context) {
	response.OK(c, gin.H{"documents": h.store.Documents()})
}

func (h *DocumentHandler) Delete(c *gin.Context) {
	documentID := c.Param("id")
	if !h.store.DeleteDocument(documentID) {
		response.Error(c, 404, "document not found")
		return
	}
	response.OK(c, gin.H{"deleted_document_id": documentID})
}
