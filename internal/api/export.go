package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"xmlsearch/internal/exporter"
	"xmlsearch/internal/finder"
)

// Export 查询并直接返回 xlsx 文件
// POST /api/export (multipart: file 或 documentId，conditions 可重复)
func (h *Handler) Export(c *gin.Context) {
	h.limitBody(c)
	var text string
	if id := c.PostForm("documentId"); id != "" {
		var err error
		if text, err = h.resolveDocument(id, ""); err != nil {
			writeError(c, err)
			return
		}
	} else {
		_, uploaded, err := h.readUpload(c)
		if err != nil && !errors.Is(err, errFileMissing) {
			writeError(c, err)
			return
		}
		// 未上传文件时 text 为空，由 finder 报告缺少输入
		text = uploaded
	}

	out, err := finder.SearchAndExport(c.Request.Context(), text, c.PostFormArray("conditions"), exporter.ExportOptions{})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", exporter.ContentDisposition())
	c.Header("X-Match-Count", strconv.Itoa(out.Result.Count))
	c.Data(http.StatusOK, exporter.ContentType, out.Workbook)
}

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ExportStream 导出 Excel（SSE 进度 + 完成后提供一次性下载地址）
// POST /api/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	text, err := h.resolveDocument(req.DocumentID, req.Document)
	if err != nil {
		writeError(c, err)
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		writeError(c, errors.New("streaming unsupported"))
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	send := func(event exportProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}
	sendError := func(err error) {
		_, code := classify(err)
		send(exportProgressEvent{
			Type:      "error",
			Message:   err.Error(),
			Data:      map[string]any{"code": code},
			Timestamp: time.Now(),
		})
	}

	send(exportProgressEvent{
		Type:      "start",
		Message:   "开始导出",
		Data:      map[string]any{"conditions": len(req.Conditions)},
		Timestamp: time.Now(),
	})

	lastPercent := -1
	progressFn := func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{
			Type:      "progress",
			Message:   p.Stage,
			Data:      map[string]any{"percent": p.Percent},
			Timestamp: time.Now(),
		})
	}

	out, err := finder.SearchAndExport(c.Request.Context(), text, req.Conditions, exporter.ExportOptions{Progress: progressFn})
	if err != nil {
		sendError(err)
		return
	}

	token := h.downloads.put(out.Workbook, out.Result.Count, h.opts.DownloadTTL)
	prefix := strings.TrimSuffix(c.FullPath(), "/export/stream")
	downloadURL := fmt.Sprintf("%s/export/download/%s", prefix, token)

	send(exportProgressEvent{
		Type:    "done",
		Message: "导出完成",
		Data: map[string]any{
			"percent":     100,
			"count":       out.Result.Count,
			"downloadUrl": downloadURL,
		},
		Timestamp: time.Now(),
	})
}

// DownloadExport 下载导出的 Excel 文件（一次性）
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	item, ok := h.downloads.take(token)
	if !ok {
		c.JSON(http.StatusNotFound, errorResponse{Code: "download_expired", Error: "download link expired"})
		return
	}

	c.Header("Content-Disposition", exporter.ContentDisposition())
	c.Header("X-Match-Count", strconv.Itoa(item.rows))
	c.Data(http.StatusOK, exporter.ContentType, item.data)
}
