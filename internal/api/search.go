package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"xmlsearch/internal/finder"
	"xmlsearch/internal/model"
)

// SearchRequest 查询请求：documentId 与 document 二选一
type SearchRequest struct {
	DocumentID string   `json:"documentId"`
	Document   string   `json:"document"`
	Conditions []string `json:"conditions"`
}

// SearchResponse 查询响应
type SearchResponse struct {
	TotalFields int               `json:"totalFields"`
	Count       int               `json:"count"`
	Conditions  []model.Condition `json:"conditions"`
	Rows        []model.ResultRow `json:"rows"`
}

// Search 按条件筛选字段
// POST /api/search
func (h *Handler) Search(c *gin.Context) {
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

	out, err := finder.Search(c.Request.Context(), text, req.Conditions)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SearchResponse{
		TotalFields: out.TotalFields,
		Count:       out.Result.Count,
		Conditions:  out.Result.Conditions,
		Rows:        out.Result.Rows,
	})
}

// resolveDocument 优先使用已上传文档，否则使用请求内联文本
// 两者都为空时交由 finder 返回 model.ErrMissingInput
func (h *Handler) resolveDocument(documentID, inline string) (string, error) {
	if documentID == "" {
		return inline, nil
	}
	doc, ok := h.documents.get(documentID)
	if !ok {
		return "", errDocumentNotFound
	}
	return doc.text, nil
}
