// Package scanner 提供文件扫描调度能力。
// 该层负责路径校验、目录遍历、任务分发和结果聚合，不负责逐行分类细节。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"commentcount/internal/classifier"
	"commentcount/internal/languages"
	"commentcount/internal/model"
)

var (
	// ErrEmptyPath 表示传入了空路径。
	ErrEmptyPath = errors.New("scan path is empty")
	// ErrNoExtension 表示单文件路径没有后缀，无法确定注释语法。
	ErrNoExtension = errors.New("file has no extension")
)

// Options 是扫描服务的可配置项。
type Options struct {
	Mode    classifier.Mode
	Workers int
	Logger  *slog.Logger
}

// Service 是扫描服务对象。
type Service struct {
	registry *languages.Registry
	mode     classifier.Mode
	workers  int
	logger   *slog.Logger
}

// scanTask 表示一个待分析文件任务。
type scanTask struct {
	path        string
	displayPath string
}

// NewService 创建扫描服务。
// Workers 小于等于 0 时按 1 处理，即完全顺序扫描。
func NewService(registry *languages.Registry, options Options) *Service {
	workers := options.Workers
	if workers <= 0 {
		workers = 1
	}

	mode := options.Mode
	if mode == "" {
		mode = classifier.ModeLegacy
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		registry: registry,
		mode:     mode,
		workers:  workers,
		logger:   logger,
	}
}

// Mode 返回服务使用的扫描模式。
func (s *Service) Mode() classifier.Mode {
	return s.mode
}

// ScanFile 扫描单个文件。
// 文件没有后缀时返回 ErrNoExtension；打开失败时返回包装后的 os 错误。
func (s *Service) ScanFile(path string) (model.FileResult, error) {
	var result model.FileResult

	trimmedPath := strings.TrimSpace(path)
	if trimmedPath == "" {
		return result, ErrEmptyPath
	}

	extension := filepath.Ext(trimmedPath)
	if extension == "" {
		return result, fmt.Errorf("%w: %s", ErrNoExtension, trimmedPath)
	}

	file, err := os.Open(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("open file: %w", err)
	}

	counters, scanErr := classifier.ScanReader(file, s.registry.Resolve(extension), s.mode)
	closeErr := file.Close()

	if scanErr != nil {
		return result, fmt.Errorf("read file: %w", scanErr)
	}
	if closeErr != nil {
		return result, fmt.Errorf("close file: %w", closeErr)
	}

	s.logger.Debug("scanned file",
		"path", trimmedPath,
		"extension", extension,
		"mode", string(s.mode),
		"total_lines", counters.TotalLines,
	)

	return model.FileResult{
		Path:      filepath.ToSlash(trimmedPath),
		Extension: extension,
		Counters:  counters,
	}, nil
}

// ScanPaths 扫描多个文件或目录。
// 路径本身不可用时立即返回错误；单个文件读取失败只记录到 Errors，不中断扫描。
func (s *Service) ScanPaths(ctx context.Context, paths []string) (model.ScanResult, error) {
	result := model.ScanResult{
		Mode:   string(s.mode),
		Files:  make([]model.FileResult, 0),
		Errors: make([]model.ScanError, 0),
	}

	if len(paths) == 0 {
		return result, ErrEmptyPath
	}

	targets := make([]string, 0, len(paths))
	infos := make([]fs.FileInfo, 0, len(paths))
	for _, path := range paths {
		trimmedPath := strings.TrimSpace(path)
		if trimmedPath == "" {
			return result, ErrEmptyPath
		}

		info, err := os.Stat(trimmedPath)
		if err != nil {
			return result, fmt.Errorf("stat path: %w", err)
		}
		if !info.IsDir() && filepath.Ext(trimmedPath) == "" {
			return result, fmt.Errorf("%w: %s", ErrNoExtension, trimmedPath)
		}

		targets = append(targets, filepath.Clean(trimmedPath))
		infos = append(infos, info)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	tasks := make(chan scanTask, s.workers*4)

	group.Go(func() error {
		defer close(tasks)
		for idx, target := range targets {
			var err error
			if infos[idx].IsDir() {
				err = s.enqueueDirectoryTasks(groupCtx, target, tasks)
			} else {
				err = s.enqueueTask(groupCtx, tasks, scanTask{path: target, displayPath: filepath.ToSlash(target)})
			}
			if err != nil {
				return err
			}
		}
		return nil
	})

	var mu sync.Mutex
	for i := 0; i < s.workers; i++ {
		group.Go(func() error {
			for task := range tasks {
				if err := groupCtx.Err(); err != nil {
					return err
				}

				fileResult, err := s.ScanFile(task.path)

				mu.Lock()
				if err != nil {
					s.logger.Warn("failed to scan file", "path", task.displayPath, "error", err)
					result.Errors = append(result.Errors, model.ScanError{Path: task.displayPath, Error: err.Error()})
				} else {
					fileResult.Path = task.displayPath
					result.Files = append(result.Files, fileResult)
				}
				mu.Unlock()
			}
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return result, err
	}

	s.buildSummaries(&result)
	s.logger.Info("scan finished",
		"files", result.Total.Files,
		"errors", len(result.Errors),
		"mode", result.Mode,
	)
	return result, nil
}

func (s *Service) enqueueTask(ctx context.Context, tasks chan<- scanTask, task scanTask) error {
	select {
	case tasks <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueueDirectoryTasks 遍历目录，跳过隐藏条目和没有后缀的文件。
func (s *Service) enqueueDirectoryTasks(ctx context.Context, root string, tasks chan<- scanTask) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if path != root && strings.HasPrefix(entry.Name(), ".") {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			return nil
		}

		if filepath.Ext(path) == "" {
			s.logger.Debug("skip file without extension", "path", path)
			return nil
		}

		return s.enqueueTask(ctx, tasks, scanTask{
			path:        path,
			displayPath: filepath.ToSlash(path),
		})
	})
}

// buildSummaries 排序明细并计算后缀级汇总和总计。
func (s *Service) buildSummaries(result *model.ScanResult) {
	sort.Slice(result.Files, func(i int, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	byExtension := make(map[string]*model.ExtensionSummary)
	result.Total = model.TotalCounters{}

	for _, item := range result.Files {
		result.Total.AddFile(item.Counters)

		summary, ok := byExtension[item.Extension]
		if !ok {
			summary = &model.ExtensionSummary{Extension: item.Extension}
			byExtension[item.Extension] = summary
		}

		summary.Files++
		summary.Counters.Add(item.Counters)
	}

	result.Extensions = make([]model.ExtensionSummary, 0, len(byExtension))
	for _, item := range byExtension {
		result.Extensions = append(result.Extensions, *item)
	}

	sort.Slice(result.Extensions, func(i int, j int) bool {
		return result.Extensions[i].Extension < result.Extensions[j].Extension
	})
}
