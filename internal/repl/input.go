package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// LineReader 逐行读取用户输入 / Reads user input one line at a time
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// ErrInterrupt is returned by a LineReader when the user presses Ctrl+C.
var ErrInterrupt = errors.New("interrupt")

type basicLineReader struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewBasicReader reads newline-terminated lines from in, echoing the prompt
// to out when out is non-nil.
func NewBasicReader(in io.Reader, out io.Writer) LineReader {
	return &basicLineReader{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (b *basicLineReader) ReadLine(prompt string) (string, error) {
	if b.out != nil {
		fmt.Fprint(b.out, prompt)
	}
	line, err := b.reader.ReadString('\n')
	if err != nil {
		// 最后一行没有换行符 / last line without a trailing newline
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (b *basicLineReader) Close() error { return nil }

type readlineReader struct {
	instance *readline.Instance
}

// NewReadlineReader returns a readline-backed reader keeping history in
// historyPath (no history when empty).
func NewReadlineReader(historyPath string) (LineReader, error) {
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}
	instance, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyPath,
		HistorySearchFold: true,
		AutoComplete:      completer,
	})
	if err != nil {
		return nil, err
	}
	return &readlineReader{instance: instance}, nil
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("add"),
	readline.PcItem("done", readline.PcItem("today"), readline.PcItem("yesterday")),
	readline.PcItem("rm"),
	readline.PcItem("list"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
	readline.PcItem("exit"),
)

func (r *readlineReader) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	line, err := r.instance.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", ErrInterrupt
	}
	return line, err
}

func (r *readlineReader) Close() error {
	if r == nil || r.instance == nil {
		return nil
	}
	return r.instance.Close()
}

// NewLineReader 终端下使用 readline，管道输入时回退为普通读取
// NewLineReader uses readline when stdin is a terminal and falls back to a
// plain reader for pipes or when readline cannot start. The fallback error
// is returned alongside the usable reader.
func NewLineReader(historyPath string) (LineReader, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return NewBasicReader(os.Stdin, nil), nil
	}
	rl, err := NewReadlineReader(historyPath)
	if err == nil {
		return rl, nil
	}
	return NewBasicReader(os.Stdin, os.Stdout), err
}
