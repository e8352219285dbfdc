package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"xmlsearch/internal/ingest"
	"xmlsearch/internal/logging"
)

// UploadDocument 上传 XML 文档
// POST /api/documents (multipart: file)
func (h *Handler) UploadDocument(c *gin.Context) {
	h.limitBody(c)
	filename, text, err := h.readUpload(c)
	if err != nil {
		writeError(c, err)
		return
	}

	// 上传时校验文档格式
	records, err := ingest.Parse(text)
	if err != nil {
		writeError(c, err)
		return
	}

	doc := h.documents.put(filename, text, len(records))
	logging.FromContext(c.Request.Context()).Info("document uploaded",
		slog.String("id", doc.ID),
		slog.String("filename", filename),
		slog.Int("fields", len(records)),
	)
	c.JSON(http.StatusCreated, doc)
}

// DeleteDocument 删除已上传文档
// DELETE /api/documents/:id
func (h *Handler) DeleteDocument(c *gin.Context) {
	if !h.documents.delete(c.Param("id")) {
		writeError(c, errDocumentNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// readUpload 读取 multipart 中的 file 字段
func (h *Handler) readUpload(c *gin.Context) (string, string, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		if isMaxBytesError(err) {
			return "", "", errFileTooLarge
		}
		return "", "", errFileMissing
	}
	if fh.Size > h.opts.MaxUploadBytes {
		return "", "", errFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.opts.MaxUploadBytes+1))
	if err != nil {
		return "", "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > h.opts.MaxUploadBytes {
		return "", "", errFileTooLarge
	}
	return fh.Filename, string(data), nil
}

// limitBody 限制请求体大小（留出 multipart 头部余量）
func (h *Handler) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.opts.MaxUploadBytes+1<<20)
}

func isMaxBytesError(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
