// Package classifier 实现逐行注释分类与计数。
// 分类器逐字符扫描每一行，只在行与行之间保留“是否处于块注释中”这一个状态。
package classifier

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"commentcount/internal/languages"
	"commentcount/internal/model"
)

const (
	todoMarker = "TODO"

	// legacyWindow 是 legacy 模式下标记比较窗口的固定长度，与标记实际长度无关。
	legacyWindow = 2
	// legacyTail 是 legacy 模式下每行末尾不参与扫描的字节数。
	legacyTail = 3
)

// Scan 使用 legacy 规则扫描内存中的行序列。
func Scan(lines []string, syntax languages.CommentSyntax) model.Counters {
	return ScanWithMode(lines, syntax, ModeLegacy)
}

// ScanWithMode 使用指定模式扫描内存中的行序列。
func ScanWithMode(lines []string, syntax languages.CommentSyntax, mode Mode) model.Counters {
	engine := newEngine(syntax, mode)
	for _, line := range lines {
		engine.processLine(line)
	}
	return engine.state.counts
}

// ScanReader 流式读取 reader 并逐行计数。
// 最后一行没有换行符时同样计入；读取错误会连同已累计的计数一起返回。
func ScanReader(reader io.Reader, syntax languages.CommentSyntax, mode Mode) (model.Counters, error) {
	engine := newEngine(syntax, mode)
	bufferedReader := bufio.NewReader(reader)

	for {
		line, err := bufferedReader.ReadString('\n')
		// 完整读取结束时退出。
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		// 真正的读取错误要立即上抛。
		if err != nil && !errors.Is(err, io.EOF) {
			return engine.state.counts, err
		}

		engine.processLine(engine.normalizeLine(line))

		// 最后一行可能没有 \n，处理后再跳出循环。
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return engine.state.counts, nil
}

// scanState 是一次扫描的全部可变状态，只属于一个 engine。
type scanState struct {
	insideBlockComment bool
	counts             model.Counters
}

// engine 保存语法、模式和扫描状态。
type engine struct {
	syntax languages.CommentSyntax
	mode   Mode
	state  scanState
}

func newEngine(syntax languages.CommentSyntax, mode Mode) *engine {
	if mode == "" {
		mode = ModeLegacy
	}
	return &engine{syntax: syntax, mode: mode}
}

// normalizeLine 去除行尾换行符。
// legacy 模式只去掉 \n，\r 作为普通数据参与扫描；corrected 模式同时处理 \r\n。
func (e *engine) normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	if e.mode == ModeCorrected {
		line = strings.TrimSuffix(line, "\r")
	}
	return line
}

func (e *engine) processLine(line string) {
	if e.mode == ModeCorrected {
		e.processCorrectedLine(line)
		return
	}
	e.processLegacyLine(line)
}

// processLegacyLine 按兼容规则处理一行：
// 扫描位置为 [0, len-3)，三种标记都与同一个 2 字节窗口比较，
// 同一行内每次命中都计数，块注释没有嵌套深度。
func (e *engine) processLegacyLine(line string) {
	counts := &e.state.counts

	for idx := 0; idx < len(line)-legacyTail; idx++ {
		current := window(line, idx, legacyWindow)

		if e.syntax.SingleLine.Defined() && current == e.syntax.SingleLine.Value() {
			counts.SingleLineCommentLines++
		}

		if e.syntax.BlockStart.Defined() && current == e.syntax.BlockStart.Value() {
			counts.BlockCommentBodyLines++
			counts.BlockCommentOpenings++
			e.state.insideBlockComment = true
		}

		if e.syntax.BlockEnd.Defined() && current == e.syntax.BlockEnd.Value() {
			e.state.insideBlockComment = false
		}

		// 比较的切片比 "TODO" 长 1 字节，因此这个条件实际上不会成立。
		if idx+len(todoMarker) < len(line) && window(line, idx, len(todoMarker)+1) == todoMarker {
			counts.TodoCount++
		}
	}

	if e.state.insideBlockComment {
		counts.BlockCommentBodyLines++
	}
	counts.TotalLines++
}

// processCorrectedLine 按标记真实长度扫描整行。
// 块注释内只识别结束标记；块注释外遇到单行注释标记后，本行剩余部分都是注释。
func (e *engine) processCorrectedLine(line string) {
	counts := &e.state.counts
	hasBlocks := e.syntax.HasBlockComments()
	hasSingle := false
	hasBlock := e.state.insideBlockComment

	for idx := 0; idx < len(line); {
		rest := line[idx:]

		if e.state.insideBlockComment {
			if hasBlocks && matches(rest, e.syntax.BlockEnd) {
				e.state.insideBlockComment = false
				idx += len(e.syntax.BlockEnd.Value())
				continue
			}
		} else {
			if matches(rest, e.syntax.SingleLine) {
				hasSingle = true
				counts.TodoCount += int64(strings.Count(rest[len(e.syntax.SingleLine.Value()):], todoMarker))
				break
			}
			if hasBlocks && matches(rest, e.syntax.BlockStart) {
				counts.BlockCommentOpenings++
				e.state.insideBlockComment = true
				hasBlock = true
				idx += len(e.syntax.BlockStart.Value())
				continue
			}
		}

		if strings.HasPrefix(rest, todoMarker) {
			counts.TodoCount++
			idx += len(todoMarker)
			continue
		}
		idx++
	}

	if hasSingle {
		counts.SingleLineCommentLines++
	}
	if hasBlock {
		counts.BlockCommentBodyLines++
	}
	if hasSingle || hasBlock {
		counts.CommentLines++
	}
	counts.TotalLines++
}

// window 返回从 start 开始、最长 size 字节的子串，越界部分截断。
func window(line string, start int, size int) string {
	end := start + size
	if end > len(line) {
		end = len(line)
	}
	return line[start:end]
}

// matches 判断 rest 是否以标记开头，空标记视为不存在。
func matches(rest string, marker languages.Marker) bool {
	return marker.Defined() && marker.Value() != "" && strings.HasPrefix(rest, marker.Value())
}
