package api

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Options 处理器参数
type Options struct {
	MaxUploadBytes int64
	DocumentTTL    time.Duration
	DownloadTTL    time.Duration
	Version        string
}

// Handler API 处理器
type Handler struct {
	opts      Options
	documents *documentStore
	downloads *exportDownloadStore
}

// NewHandler 创建 API 处理器
func NewHandler(opts Options) *Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	if opts.DocumentTTL <= 0 {
		opts.DocumentTTL = 30 * time.Minute
	}
	if opts.DownloadTTL <= 0 {
		opts.DownloadTTL = 10 * time.Minute
	}
	return &Handler{
		opts:      opts,
		documents: newDocumentStore(opts.DocumentTTL),
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes 注册路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 文档上传
	router.POST("/documents", h.UploadDocument)
	router.DELETE("/documents/:id", h.DeleteDocument)

	// 查询
	router.POST("/search", h.Search)

	// 导出
	router.POST("/export", h.Export)
	router.POST("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
}
