package exporter

import (
	"fmt"
	"mime"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"xmlsearch/internal/model"
)

const (
	// SheetName 导出工作表名称
	SheetName = "MatchingFields"
	// FileName 导出文件名
	FileName = "matching_fields.xlsx"
	// ContentType xlsx MIME 类型
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	minColWidth = 10
	maxColWidth = 60
)

// ExportOptions 导出选项
type ExportOptions struct {
	Progress func(ProgressEvent)
}

// Export 将结果行写入单个工作表
//
// 列为所有行出现过的键的并集，按首次出现顺序排列（首行的键在前）。
// 行集为空时返回 model.ErrNoData，不生成文件。
func Export(rows []model.ResultRow, opts ExportOptions) (*excelize.File, error) {
	if len(rows) == 0 {
		return nil, model.ErrNoData
	}

	reportProgress(opts.Progress, 0, "准备列")
	columns := unionColumns(rows)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeHeader(f, columns); err != nil {
		_ = f.Close()
		return nil, err
	}
	reportProgress(opts.Progress, 10, "写入表头")

	widths := make([]int, len(columns))
	for i, c := range columns {
		widths[i] = utf8.RuneCountInString(c)
	}

	for i, row := range rows {
		values := make([]interface{}, len(columns))
		for j, c := range columns {
			v := row.Get(c)
			values[j] = v
			if n := utf8.RuneCountInString(v); n > widths[j] {
				widths[j] = n
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
		reportProgress(opts.Progress, 10+80*(i+1)/len(rows), "写入数据")
	}

	setColumnWidths(f, widths)
	_ = f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	f.SetActiveSheet(0)

	reportProgress(opts.Progress, 100, "完成")
	return f, nil
}

// WriteXLSX 导出并返回 xlsx 字节流
func WriteXLSX(rows []model.ResultRow, opts ExportOptions) ([]byte, error) {
	f, err := Export(rows, opts)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentDisposition 下载响应头
func ContentDisposition() string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": FileName})
}

func unionColumns(rows []model.ResultRow) []string {
	seen := make(map[string]bool)
	var columns []string
	for _, r := range rows {
		for _, c := range r.Columns() {
			if seen[c] {
				continue
			}
			seen[c] = true
			columns = append(columns, c)
		}
	}
	return columns
}

func writeHeader(f *excelize.File, columns []string) error {
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#E2E8F0"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	return f.SetRowStyle(SheetName, 1, 1, headerStyle)
}

func setColumnWidths(f *excelize.File, widths []int) {
	for i, w := range widths {
		w += 2
		if w < minColWidth {
			w = minColWidth
		}
		if w > maxColWidth {
			w = maxColWidth
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			continue
		}
		_ = f.SetColWidth(SheetName, col, col, float64(w))
	}
}
