// Package ingest 将上传的 XML 文档展平为 Field 记录序列
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"xmlsearch/internal/model"
)

// 文档结构 <Fields><Field Code="..."><Formula><Expression/></Formula>...</Field></Fields>
const (
	rootTag       = "Fields"
	fieldTag      = "Field"
	codeAttr      = "Code"
	formulaPath   = "Formula/Expression"
	repeatJoinSep = ","
)

var (
	errNoRoot          = errors.New("document has no root element")
	errMultipleRoots   = errors.New("document has more than one root element")
	errTextOutsideRoot = errors.New("document has text outside the root element")
)

// Parse 解析 XML 文本，返回按文档顺序排列的记录
// 没有 Fields/Field 节点时返回空序列；文档格式错误返回 *model.ParseError
func Parse(text string) ([]model.FieldRecord, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, &model.ParseError{Err: err}
	}

	if err := checkWellFormed(doc); err != nil {
		return nil, &model.ParseError{Err: err}
	}
	root := doc.Root()

	nodes := fieldNodes(root)
	records := make([]model.FieldRecord, 0, len(nodes))
	for _, node := range nodes {
		records = append(records, flattenField(node))
	}
	return records, nil
}

// checkWellFormed 补充 etree 未做的检查：唯一根元素、根外无文本、属性不重复
func checkWellFormed(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return errTextOutsideRoot
			}
		}
	}
	switch {
	case roots == 0:
		return errNoRoot
	case roots > 1:
		return errMultipleRoots
	}
	return checkAttrs(doc.Root())
}

func checkAttrs(el *etree.Element) error {
	seen := make(map[string]struct{}, len(el.Attr))
	for _, a := range el.Attr {
		key := a.Key
		if a.Space != "" {
			key = a.Space + ":" + a.Key
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("element <%s> has duplicate attribute %q", el.Tag, key)
		}
		seen[key] = struct{}{}
	}
	for _, child := range el.ChildElements() {
		if err := checkAttrs(child); err != nil {
			return err
		}
	}
	return nil
}

// fieldNodes 定位 Fields.Field，统一返回切片（单个 Field 即单元素切片）
func fieldNodes(root *etree.Element) []*etree.Element {
	if root.Tag != rootTag {
		return nil
	}
	return root.SelectElements(fieldTag)
}

func flattenField(node *etree.Element) model.FieldRecord {
	formula := ""
	if expr := node.FindElement(formulaPath); expr != nil {
		formula = textContent(expr)
	}

	attrs := make([]model.TagValue, 0, len(node.Attr))
	for _, a := range node.Attr {
		attrs = append(attrs, model.TagValue{Key: a.Key, Value: a.Value})
	}

	// 同名子元素按出现顺序以逗号拼接
	var order []string
	values := make(map[string][]string)
	for _, child := range node.ChildElements() {
		if _, seen := values[child.Tag]; !seen {
			order = append(order, child.Tag)
		}
		values[child.Tag] = append(values[child.Tag], textContent(child))
	}
	tags := make([]model.TagValue, 0, len(order))
	for _, name := range order {
		tags = append(tags, model.TagValue{Key: name, Value: strings.Join(values[name], repeatJoinSep)})
	}

	return model.NewFieldRecord(
		node.SelectAttrValue(codeAttr, ""),
		formula,
		model.NewTags(tags...),
		model.NewTags(attrs...),
	)
}

// textContent 元素及其后代的文本，各段去除首尾空白后以单个空格连接
func textContent(el *etree.Element) string {
	var parts []string
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, tok := range e.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				if s := strings.TrimSpace(t.Data); s != "" {
					parts = append(parts, s)
				}
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(el)
	return strings.Join(parts, " ")
}
