// Package finder 串联 解析 → 筛选 → 导出 的单次处理流程
//
// 每次调用相互独立，不持有共享状态。
package finder

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"xmlsearch/internal/exporter"
	"xmlsearch/internal/ingest"
	"xmlsearch/internal/logging"
	"xmlsearch/internal/model"
	"xmlsearch/internal/search"
)

// Outcome 一次处理的结果
type Outcome struct {
	TotalFields int
	Result      search.Result
	Workbook    []byte
}

// Search 解析文档并按条件筛选
func Search(ctx context.Context, document string, conditions []string) (*Outcome, error) {
	log := logging.FromContext(ctx)

	if strings.TrimSpace(document) == "" {
		return nil, model.ErrMissingInput
	}

	records, err := ingest.Parse(document)
	if err != nil {
		log.Warn("xml parse failed", slog.Any("error", err))
		return nil, fmt.Errorf("ingest: %w", err)
	}

	res := search.Filter(records, conditions)
	log.Debug("search finished",
		slog.Int("fields", len(records)),
		slog.Int("conditions", len(res.Conditions)),
		slog.Int("ignoredConditions", len(conditions)-len(res.Conditions)),
		slog.Int("matches", res.Count),
	)

	return &Outcome{
		TotalFields: len(records),
		Result:      res,
	}, nil
}

// SearchAndExport 筛选后导出 xlsx；无匹配时返回 model.ErrNoData
func SearchAndExport(ctx context.Context, document string, conditions []string, opts exporter.ExportOptions) (*Outcome, error) {
	out, err := Search(ctx, document, conditions)
	if err != nil {
		return nil, err
	}

	data, err := exporter.WriteXLSX(out.Result.Rows, opts)
	if err != nil {
		return out, fmt.Errorf("export: %w", err)
	}
	out.Workbook = data

	logging.FromContext(ctx).Info("export finished",
		slog.Int("rows", out.Result.Count),
		slog.Int("bytes", len(data)),
	)
	return out, nil
}
