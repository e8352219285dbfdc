// xmlsearch 按 标签:值 条件筛选 XML 字段定义并导出为 Excel
package main

import (
	"os"

	"xmlsearch/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
