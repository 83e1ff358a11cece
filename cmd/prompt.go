package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Replaced in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// prompter reads answers from the command's input. One prompter is shared by
// all questions of a command so buffered input is not lost between them.
type prompter struct {
	in  *bufio.Reader
	tty *os.File
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	r := cmd.InOrStdin()
	p := &prompter{in: bufio.NewReader(r), out: cmd.OutOrStdout()}
	if f, ok := r.(*os.File); ok && isTerminal(int(f.Fd())) {
		p.tty = f
	}
	return p
}

// promptInput 提示用户输入普通信息；输入结束（EOF）视为空回答
func (p *prompter) promptInput(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

// promptSecret 提示用户输入敏感信息（终端下隐藏输入）
func (p *prompter) promptSecret(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if p.tty != nil {
		secret, err := readPassword(int(p.tty.Fd()))
		fmt.Fprintln(p.out)
		if err == nil {
			return strings.TrimSpace(string(secret)), nil
		}
		// 降级处理：隐藏输入失败时使用明文输入
	}
	return p.readLine()
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
