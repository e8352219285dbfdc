package model

import "errors"

var (
	// ErrMissingInput 请求搜索时尚未提供 XML 文档
	ErrMissingInput = errors.New("please upload an XML file first")
	// ErrNoData 没有匹配行可导出
	ErrNoData = errors.New("no data to export")
)

// ParseError XML 文档格式错误
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "invalid XML document"
	}
	return "invalid XML document: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
