package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Documents int    `json:"documents"` // 缓存中的上传文档数
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Service:   "xmlsearch",
		Version:   h.opts.Version,
		Documents: h.documents.count(),
	})
}
