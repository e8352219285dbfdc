package model

import "strings"

// AttrPrefix 条件标签以此前缀开头时按 Field 元素属性查找（如 "@_Code"）
const AttrPrefix = "@_"

// 结果行固定列
const (
	ColumnFieldCode = "FieldCode"
	ColumnFormula   = "Formula"
)

// FieldRecord 一个 <Field> 元素展平后的记录，解析后不可变
type FieldRecord struct {
	code    string
	formula string
	tags    Tags
	attrs   Tags
}

// NewFieldRecord 创建记录
func NewFieldRecord(code, formula string, tags, attrs Tags) FieldRecord {
	return FieldRecord{
		code:    code,
		formula: formula,
		tags:    tags,
		attrs:   attrs,
	}
}

// Code Code 属性，缺失为 ""
func (r FieldRecord) Code() string { return r.code }

// Formula Formula/Expression 文本，缺失为 ""
func (r FieldRecord) Formula() string { return r.formula }

// Tags 子元素标签
func (r FieldRecord) Tags() Tags { return r.tags }

// Value 按条件标签取值：AttrPrefix 前缀查属性，否则查子元素
func (r FieldRecord) Value(tag string) string {
	if name, ok := strings.CutPrefix(tag, AttrPrefix); ok {
		return r.attrs.Get(name)
	}
	return r.tags.Get(tag)
}

// Condition 单个筛选条件（标签:值）
type Condition struct {
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// ResultRow 匹配记录的导出行
type ResultRow struct {
	Cells Tags
}

// FieldCode 字段编码
func (r ResultRow) FieldCode() string { return r.Cells.Get(ColumnFieldCode) }

// Formula 公式
func (r ResultRow) Formula() string { return r.Cells.Get(ColumnFormula) }

// Get 按列名取值
func (r ResultRow) Get(column string) string { return r.Cells.Get(column) }

// Columns 列名（有序）
func (r ResultRow) Columns() []string { return r.Cells.Keys() }

// MarshalJSON 输出为有序 JSON 对象
func (r ResultRow) MarshalJSON() ([]byte, error) {
	return r.Cells.MarshalJSON()
}
