package languages

import "encoding/json"

// Marker 表示一个可选的注释标记。
// 语言不支持某种注释结构时，Marker 处于 absent 状态，这与空字符串不同。
type Marker struct {
	value   string
	defined bool
}

// Some 创建一个已定义的标记。
func Some(value string) Marker {
	return Marker{value: value, defined: true}
}

// Absent 返回未定义标记，例如 Python 没有块注释。
func Absent() Marker {
	return Marker{}
}

// markerFrom 把配置/表格中的指针值转换为 Marker，nil 表示 absent。
func markerFrom(value *string) Marker {
	if value == nil {
		return Absent()
	}
	return Some(*value)
}

// Defined 报告标记是否存在。
func (m Marker) Defined() bool {
	return m.defined
}

// Value 返回标记文本；absent 时返回空字符串。
func (m Marker) Value() string {
	return m.value
}

// String 用于日志和表格显示，absent 显示为 "-"。
func (m Marker) String() string {
	if !m.defined {
		return "-"
	}
	return m.value
}

// MarshalJSON 把 absent 输出为 null。
func (m Marker) MarshalJSON() ([]byte, error) {
	if !m.defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// CommentSyntax 是某个语言的注释语法三元组。
// 解析完成后不再修改。
type CommentSyntax struct {
	SingleLine Marker `json:"single_line"`
	BlockStart Marker `json:"block_start"`
	BlockEnd   Marker `json:"block_end"`
}

// DefaultSyntax 是后缀未收录时使用的 C 风格语法。
func DefaultSyntax() CommentSyntax {
	return CommentSyntax{
		SingleLine: Some("//"),
		BlockStart: Some("/*"),
		BlockEnd:   Some("*/"),
	}
}

// HasBlockComments 报告块注释的起止标记是否都存在。
func (s CommentSyntax) HasBlockComments() bool {
	return s.BlockStart.Defined() && s.BlockEnd.Defined()
}

// Row 是语法表中的一行。
// 指针字段为 nil 表示该语言没有对应结构，同时适配 YAML 的 null 与 viper 的 mapstructure 解码。
type Row struct {
	Extension  string  `yaml:"extension" mapstructure:"extension"`
	SingleLine *string `yaml:"single_line" mapstructure:"single_line"`
	BlockStart *string `yaml:"block_start" mapstructure:"block_start"`
	BlockEnd   *string `yaml:"block_end" mapstructure:"block_end"`
}

// Syntax 把表格行转换为不可变的 CommentSyntax。
func (r Row) Syntax() CommentSyntax {
	return CommentSyntax{
		SingleLine: markerFrom(r.SingleLine),
		BlockStart: markerFrom(r.BlockStart),
		BlockEnd:   markerFrom(r.BlockEnd),
	}
}
