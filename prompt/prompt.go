// Package prompt gathers fields the caller did not supply. Entities are
// built only after every required field is present; nothing in types or
// storage asks the user anything.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/teranos/dlog/errors"
	"github.com/teranos/dlog/types"
)

// Prompter asks for a single line of input.
type Prompter interface {
	Ask(label string) (string, error)
}

// Terminal prompts on out and reads answers from in.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminal creates a prompter over the given streams
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out}
}

func (t *Terminal) Ask(label string) (string, error) {
	fmt.Fprintf(t.out, "%s: ", label)
	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", errors.NewInvalidRequestError("no answer for %s", label)
		}
		return "", errors.Wrapf(err, "read %s", label)
	}
	return strings.TrimSpace(line), nil
}

// Scripted answers from a fixed list, for tests and non-interactive use.
type Scripted struct {
	Answers []string
	Asked   []string
}

func (s *Scripted) Ask(label string) (string, error) {
	s.Asked = append(s.Asked, label)
	if len(s.Answers) == 0 {
		return "", errors.NewInvalidRequestError("no answer for %s", label)
	}
	answer := s.Answers[0]
	s.Answers = s.Answers[1:]
	return answer, nil
}

// MaxAttempts bounds how often a rejected name is asked again.
const MaxAttempts = 3

// Name asks for a name until it passes ValidateName.
func Name(p Prompter, label string) (string, error) {
	var lastErr error
	for i := 0; i < MaxAttempts; i++ {
		answer, err := p.Ask(label)
		if err != nil {
			return "", err
		}
		if lastErr = ValidateName(answer); lastErr == nil {
			return strings.TrimSpace(answer), nil
		}
	}
	return "", lastErr
}

// Tokens asks for a line and splits it with shell quoting, so
// `for "an hour"` gives two tokens.
func Tokens(p Prompter, label string) ([]string, error) {
	answer, err := p.Ask(label)
	if err != nil {
		return nil, err
	}
	words, err := shellquote.Split(answer)
	if err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidRequest), "split "+label)
	}
	return words, nil
}

// SplitArgs splits a raw argument string the way Tokens does.
func SplitArgs(raw string) ([]string, error) {
	words, err := shellquote.Split(raw)
	if err != nil {
		return nil, errors.Wrap(errors.Mark(err, errors.ErrInvalidRequest), "split arguments")
	}
	return words, nil
}

// Fill completes cmd before any entity is built: a missing name is asked
// for, and every name present is validated. A nil prompter only validates.
func Fill(cmd *types.FactCommand, p Prompter) error {
	if strings.TrimSpace(cmd.Name) == "" {
		if p == nil {
			return errors.NewInvalidNameError(cmd.Name, "fact name is required")
		}
		name, err := Name(p, "Fact name")
		if err != nil {
			return err
		}
		cmd.Name = name
	}
	for _, name := range []string{cmd.Name, cmd.Record, cmd.Item} {
		if name == "" {
			continue
		}
		if err := ValidateName(name); err != nil {
			return err
		}
	}
	return nil
}

// RecordFor returns a resolver that asks which record an item belongs to.
// An empty answer picks the default record.
func RecordFor(p Prompter) func(item *types.Item) (string, error) {
	return func(item *types.Item) (string, error) {
		answer, err := p.Ask(fmt.Sprintf("Record for item %s (empty for the default)", item.Name))
		if err != nil {
			return "", err
		}
		if answer == "" {
			return "", nil
		}
		if err := ValidateName(answer); err != nil {
			return "", err
		}
		return answer, nil
	}
}
