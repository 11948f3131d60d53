// Package report 提供 commentcount 的输出能力。
// 当前实现支持 text（每项计数一行）、table 和 JSON（含文件导出）。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"commentcount/internal/languages"
	"commentcount/internal/model"
)

// counterLabels 与 Counters.Values 的顺序一一对应。
var counterLabels = [6]string{
	"Total # of lines",
	"Total # of comment lines",
	"Total # of single line comments",
	"Total # of comment lines within block comments",
	"Total # of block line comments",
	"Total # of TODO's",
}

var counterHeaders = []string{"Lines", "Comment", "Single", "Block Body", "Block Open", "TODO"}

// PrintCounters 按固定顺序输出六项计数，每项一行。
func PrintCounters(writer io.Writer, counters model.Counters) error {
	for idx, value := range counters.Values() {
		if _, err := fmt.Fprintf(writer, "%s: %d\n", counterLabels[idx], value); err != nil {
			return err
		}
	}
	return nil
}

// PrintText 逐文件输出六行计数，多文件时额外输出总计。
func PrintText(writer io.Writer, result model.ScanResult) error {
	for idx, item := range result.Files {
		if idx > 0 {
			if _, err := fmt.Fprintln(writer); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(writer, "%s\n", item.Path); err != nil {
			return err
		}
		if err := PrintCounters(writer, item.Counters); err != nil {
			return err
		}
	}

	if len(result.Files) > 1 {
		if _, err := fmt.Fprintf(writer, "\nTOTAL (%d files)\n", result.Total.Files); err != nil {
			return err
		}
		if err := PrintCounters(writer, result.Total.Counters); err != nil {
			return err
		}
	}

	return printTextErrors(writer, result.Errors)
}

func printTextErrors(writer io.Writer, errors []model.ScanError) error {
	for _, item := range errors {
		if _, err := fmt.Fprintf(writer, "error: %s: %s\n", item.Path, item.Error); err != nil {
			return err
		}
	}
	return nil
}

// PrintTable 使用表格展示扫描结果。
func PrintTable(writer io.Writer, result model.ScanResult) error {
	files := newTable(writer, append([]string{"File", "Ext"}, counterHeaders...))
	for _, item := range result.Files {
		files.Append(append([]string{item.Path, item.Extension}, formatCounters(item.Counters)...))
	}
	files.SetFooter(append([]string{"Total", strconv.FormatInt(result.Total.Files, 10)}, formatCounters(result.Total.Counters)...))
	files.Render()

	if _, err := fmt.Fprintln(writer); err != nil {
		return err
	}

	extensions := newTable(writer, append([]string{"Ext", "Files"}, counterHeaders...))
	for _, item := range result.Extensions {
		extensions.Append(append([]string{item.Extension, strconv.FormatInt(item.Files, 10)}, formatCounters(item.Counters)...))
	}
	extensions.Render()

	if len(result.Errors) > 0 {
		if _, err := fmt.Fprintln(writer); err != nil {
			return err
		}
		failures := newTable(writer, []string{"Error File", "Message"})
		for _, item := range result.Errors {
			failures.Append([]string{item.Path, item.Error})
		}
		failures.Render()
	}

	return nil
}

// PrintLanguages 以表格展示注释语法表，absent 标记显示为 "-"。
func PrintLanguages(writer io.Writer, items []languages.LanguageDescriptor) error {
	table := newTable(writer, []string{"Extension", "Single", "Block Start", "Block End"})
	for _, item := range items {
		table.Append([]string{
			item.Extension,
			item.Syntax.SingleLine.String(),
			item.Syntax.BlockStart.String(),
			item.Syntax.BlockEnd.String(),
		})
	}

	defaults := languages.DefaultSyntax()
	table.SetFooter([]string{
		"(default)",
		defaults.SingleLine.String(),
		defaults.BlockStart.String(),
		defaults.BlockEnd.String(),
	})
	table.Render()
	return nil
}

func newTable(writer io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(writer)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func formatCounters(counters model.Counters) []string {
	values := counters.Values()
	result := make([]string, 0, len(values))
	for _, value := range values {
		result = append(result, strconv.FormatInt(value, 10))
	}
	return result
}

// PrintJSON 把扫描结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result model.ScanResult) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// WriteJSONFile 将 JSON 结果导出到指定路径。
// 如果目录不存在会自动创建。
func WriteJSONFile(path string, result model.ScanResult) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, content, 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}
