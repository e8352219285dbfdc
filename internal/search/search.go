// Package search 按 "标签:值" 条件筛选 Field 记录并投影为导出行
package search

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"xmlsearch/internal/model"
)

// Result 筛选结果
type Result struct {
	Conditions []model.Condition `json:"conditions"`
	Rows       []model.ResultRow `json:"rows"`
	Count      int               `json:"count"`
}

// ParseConditions 解析原始条件字符串
// 以第一个 ':' 分割并去除两侧空白；不含 ':' 的输入直接忽略
func ParseConditions(raw []string) []model.Condition {
	conds := make([]model.Condition, 0, len(raw))
	for _, input := range raw {
		tag, value, ok := strings.Cut(input, ":")
		if !ok {
			continue
		}
		conds = append(conds, model.Condition{
			Tag:   strings.TrimSpace(tag),
			Value: strings.TrimSpace(value),
		})
	}
	return conds
}

// Matches 记录是否满足全部条件（大小写不敏感的字符串相等）
// 条件为空时恒为 true
func Matches(record model.FieldRecord, conds []model.Condition) bool {
	lower := cases.Lower(language.Und)
	for _, c := range conds {
		if lower.String(record.Value(c.Tag)) != lower.String(c.Value) {
			return false
		}
	}
	return true
}

// Project 构建导出行：FieldCode、Formula，以及每个条件标签的大写值
func Project(record model.FieldRecord, conds []model.Condition) model.ResultRow {
	upper := cases.Upper(language.Und)
	cells := make([]model.TagValue, 0, len(conds)+2)
	cells = append(cells,
		model.TagValue{Key: model.ColumnFieldCode, Value: record.Code()},
		model.TagValue{Key: model.ColumnFormula, Value: record.Formula()},
	)
	for _, c := range conds {
		cells = append(cells, model.TagValue{Key: c.Tag, Value: upper.String(record.Value(c.Tag))})
	}
	return model.ResultRow{Cells: model.NewTags(cells...)}
}

// Filter 解析条件并筛选记录，结果保持输入顺序
func Filter(records []model.FieldRecord, raw []string) Result {
	conds := ParseConditions(raw)
	rows := make([]model.ResultRow, 0)
	for _, r := range records {
		if Matches(r, conds) {
			rows = append(rows, Project(r, conds))
		}
	}
	return Result{
		Conditions: conds,
		Rows:       rows,
		Count:      len(rows),
	}
}
