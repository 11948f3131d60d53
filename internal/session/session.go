// Package session 实现交互式扫描会话。
// 会话是分类核心之外的一个显式状态机：提示输入文件名、校验、扫描、输出结果，
// 然后询问是否继续，直到输入流结束。
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"commentcount/internal/model"
	"commentcount/internal/report"
)

// State 是会话状态机的状态。
type State int

const (
	StateAwaitingInput State = iota
	StateValidating
	StateScanning
	StateReporting
	StateAwaitingContinue
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateAwaitingInput:
		return "awaiting-input"
	case StateValidating:
		return "validating"
	case StateScanning:
		return "scanning"
	case StateReporting:
		return "reporting"
	case StateAwaitingContinue:
		return "awaiting-continue"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

const (
	inputPrompt    = "Please enter the name of your file:"
	invalidName    = "Invalid file name. Please try again."
	cannotOpen     = "Sorry, can't open file."
	continuePrompt = "To scan another file, enter any key to continue. To quit, enter ctrl-d."
	promptMarker   = ">> "
)

// FileScanner 扫描单个文件并返回计数。
type FileScanner interface {
	ScanFile(path string) (model.FileResult, error)
}

// Session 保存一次交互会话的全部状态。
type Session struct {
	input   *bufio.Scanner
	out     io.Writer
	errOut  io.Writer
	scanner FileScanner
	logger  *slog.Logger
	marker  lipgloss.Style

	state    State
	fileName string
	result   model.FileResult
}

// New 创建会话，初始状态为 StateAwaitingInput。
func New(in io.Reader, out io.Writer, errOut io.Writer, scanner FileScanner, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	renderer := lipgloss.NewRenderer(out)
	return &Session{
		input:   bufio.NewScanner(in),
		out:     out,
		errOut:  errOut,
		scanner: scanner,
		logger:  logger,
		marker:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		state:   StateAwaitingInput,
	}
}

// State 返回当前状态。
func (s *Session) State() State {
	return s.state
}

// Run 反复执行状态转移，直到进入 StateTerminated 或 ctx 被取消。
func (s *Session) Run(ctx context.Context) error {
	for s.state != StateTerminated {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step 执行一次状态转移。
func (s *Session) Step() error {
	previous := s.state
	err := s.step()
	if s.state != previous {
		s.logger.Debug("session transition", "from", previous.String(), "to", s.state.String())
	}
	return err
}

func (s *Session) step() error {
	switch s.state {
	case StateAwaitingInput:
		return s.awaitInput()
	case StateValidating:
		return s.validate()
	case StateScanning:
		return s.scan()
	case StateReporting:
		return s.reportResult()
	case StateAwaitingContinue:
		return s.awaitContinue()
	default:
		return nil
	}
}

// awaitInput 读取一行，只取第一个空白分隔的词作为文件名。
func (s *Session) awaitInput() error {
	if err := s.prompt(inputPrompt); err != nil {
		return err
	}

	line, ok, err := s.readLine()
	if err != nil {
		return err
	}
	if !ok {
		s.state = StateTerminated
		return nil
	}

	fields := strings.Fields(line)
	s.fileName = ""
	if len(fields) > 0 {
		s.fileName = fields[0]
	}
	s.state = StateValidating
	return nil
}

func (s *Session) validate() error {
	if s.fileName == "" || filepath.Ext(s.fileName) == "" {
		s.state = StateAwaitingInput
		return s.println(s.out, invalidName)
	}
	s.state = StateScanning
	return nil
}

func (s *Session) scan() error {
	result, err := s.scanner.ScanFile(s.fileName)
	if err != nil {
		s.logger.Warn("cannot scan file", "path", s.fileName, "error", err)
		s.state = StateAwaitingInput
		if printErr := s.println(s.errOut, cannotOpen); printErr != nil {
			return printErr
		}
		return s.println(s.out, invalidName)
	}

	s.result = result
	s.state = StateReporting
	return nil
}

func (s *Session) reportResult() error {
	s.state = StateAwaitingContinue
	return report.PrintCounters(s.out, s.result.Counters)
}

func (s *Session) awaitContinue() error {
	if err := s.prompt(continuePrompt); err != nil {
		return err
	}

	_, ok, err := s.readLine()
	if err != nil {
		return err
	}
	if !ok {
		s.state = StateTerminated
		return nil
	}

	s.state = StateAwaitingInput
	return nil
}

func (s *Session) prompt(message string) error {
	_, err := fmt.Fprintf(s.out, "%s\n%s", message, s.marker.Render(promptMarker))
	return err
}

func (s *Session) println(writer io.Writer, message string) error {
	_, err := fmt.Fprintln(writer, message)
	return err
}

// readLine 返回下一行；ok 为 false 表示输入流已结束。
func (s *Session) readLine() (string, bool, error) {
	if s.input.Scan() {
		return s.input.Text(), true, nil
	}
	if err := s.input.Err(); err != nil {
		return "", false, fmt.Errorf("read input: %w", err)
	}
	return "", false, nil
}
