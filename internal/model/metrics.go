// Package model 定义 commentcount 的核心数据模型。
// 这些结构会被分类器、扫描服务、输出层和命令层共同使用。
package model

// Counters 表示一次扫描得到的六项计数。
//
// 注意：
// - 字段顺序即对外输出顺序
// - legacy 模式下 CommentLines 永远为 0
// - 所有字段在扫描过程中只增不减
type Counters struct {
	TotalLines             int64 `json:"total_lines"`
	CommentLines           int64 `json:"comment_lines"`
	SingleLineCommentLines int64 `json:"single_line_comment_lines"`
	BlockCommentBodyLines  int64 `json:"block_comment_body_lines"`
	BlockCommentOpenings   int64 `json:"block_comment_openings"`
	TodoCount              int64 `json:"todo_count"`
}

// Add 将另一个统计结果叠加到当前对象。
func (c *Counters) Add(other Counters) {
	c.TotalLines += other.TotalLines
	c.CommentLines += other.CommentLines
	c.SingleLineCommentLines += other.SingleLineCommentLines
	c.BlockCommentBodyLines += other.BlockCommentBodyLines
	c.BlockCommentOpenings += other.BlockCommentOpenings
	c.TodoCount += other.TodoCount
}

// Values 按固定输出顺序返回六项计数。
func (c Counters) Values() [6]int64 {
	return [6]int64{
		c.TotalLines,
		c.CommentLines,
		c.SingleLineCommentLines,
		c.BlockCommentBodyLines,
		c.BlockCommentOpenings,
		c.TodoCount,
	}
}

// FileResult 表示单文件扫描结果。
type FileResult struct {
	Path      string   `json:"path"`
	Extension string   `json:"extension"`
	Counters  Counters `json:"counters"`
}

// ExtensionSummary 表示某个后缀的聚合结果。
type ExtensionSummary struct {
	Extension string   `json:"extension"`
	Files     int64    `json:"files"`
	Counters  Counters `json:"counters"`
}

// ScanError 记录单文件扫描失败信息。
// 多路径扫描时单个文件失败不会中断整体扫描。
type ScanError struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// TotalCounters 表示全部文件的总计。
type TotalCounters struct {
	Files int64 `json:"files"`
	Counters
}

// AddFile 累加一个文件的计数到总计中。
func (t *TotalCounters) AddFile(other Counters) {
	t.Files++
	t.Counters.Add(other)
}

// ScanResult 是 scan 命令的完整输出模型。
type ScanResult struct {
	Mode       string             `json:"mode"`
	Files      []FileResult       `json:"files"`
	Extensions []ExtensionSummary `json:"extensions"`
	Total      TotalCounters      `json:"total"`
	Errors     []ScanError        `json:"errors"`
}
