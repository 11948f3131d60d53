// Package languages 提供注释语法表和后缀解析能力。
// 语法表是静态数据（内嵌的 languages.yaml），启动时解码一次，之后只读。
package languages

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed languages.yaml
var builtinTable []byte

// Registry 管理后缀到注释语法的映射。
// Registry 创建后不可变，WithRows 会返回新的实例。
type Registry struct {
	rows        []Row
	syntaxByExt map[string]CommentSyntax
}

// NewRegistry 加载内置语法表。
// 内置表随二进制一起发布，解码失败属于构建错误，因此直接 panic。
func NewRegistry() *Registry {
	rows, err := ParseTable(builtinTable)
	if err != nil {
		panic(fmt.Sprintf("decode builtin syntax table: %v", err))
	}
	return newRegistry(rows)
}

// ParseTable 解码 YAML 格式的语法表。
func ParseTable(content []byte) ([]Row, error) {
	var rows []Row
	if err := yaml.Unmarshal(content, &rows); err != nil {
		return nil, fmt.Errorf("unmarshal syntax table: %w", err)
	}

	for idx, row := range rows {
		if row.Extension == "" {
			return nil, fmt.Errorf("syntax table row %d: extension is empty", idx)
		}
	}
	return rows, nil
}

func newRegistry(rows []Row) *Registry {
	registry := &Registry{
		rows:        make([]Row, 0, len(rows)),
		syntaxByExt: make(map[string]CommentSyntax, len(rows)),
	}

	// 后缀重复时后出现的行覆盖先出现的行，便于配置文件覆盖内置条目。
	position := make(map[string]int, len(rows))
	for _, row := range rows {
		if idx, ok := position[row.Extension]; ok {
			registry.rows[idx] = row
		} else {
			position[row.Extension] = len(registry.rows)
			registry.rows = append(registry.rows, row)
		}
		registry.syntaxByExt[row.Extension] = row.Syntax()
	}

	return registry
}

// WithRows 返回追加（或覆盖）了额外行的新注册中心，接收者保持不变。
func (r *Registry) WithRows(rows ...Row) *Registry {
	merged := make([]Row, 0, len(r.rows)+len(rows))
	merged = append(merged, r.rows...)
	merged = append(merged, rows...)
	return newRegistry(merged)
}

// Lookup 精确匹配后缀（区分大小写，包含点号）。
func (r *Registry) Lookup(extension string) (CommentSyntax, bool) {
	syntax, ok := r.syntaxByExt[extension]
	return syntax, ok
}

// Resolve 返回后缀对应的注释语法，未收录时返回默认语法。
func (r *Registry) Resolve(extension string) CommentSyntax {
	if syntax, ok := r.Lookup(extension); ok {
		return syntax
	}
	return DefaultSyntax()
}

// ResolveFile 根据文件路径的后缀解析注释语法。
func (r *Registry) ResolveFile(path string) CommentSyntax {
	return r.Resolve(filepath.Ext(path))
}

// LanguageDescriptor 用于对外展示语法表条目。
type LanguageDescriptor struct {
	Extension string
	Syntax    CommentSyntax
}

// Languages 返回按后缀排序的语法表。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.rows))
	for _, row := range r.rows {
		result = append(result, LanguageDescriptor{
			Extension: row.Extension,
			Syntax:    row.Syntax(),
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Extension < result[j].Extension
	})

	return result
}
