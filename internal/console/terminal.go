// Package console runs the werewolf sheet as a line-oriented terminal
// session: it renders sheets, answers dialogs, and prints chat cards.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/cory-johannsen/wta/internal/game/sheet"
)

// Terminal is a line-based reader/writer. It implements sheet.Prompter and
// sheet.Chat on top of the same input stream the command loop reads.
type Terminal struct {
	mu     sync.Mutex
	in     *bufio.Scanner
	out    io.Writer
	render Renderer

	start sync.Once
	lines chan inputLine
}

type inputLine struct {
	text string
	err  error
}

// NewTerminal creates a Terminal reading lines from in and writing to out.
//
// Precondition: in and out must be non-nil.
func NewTerminal(in io.Reader, out io.Writer, color bool) *Terminal {
	return &Terminal{
		in:     bufio.NewScanner(in),
		out:    out,
		render: NewRenderer(color),
	}
}

// Renderer returns the renderer the terminal formats with.
func (t *Terminal) Renderer() Renderer {
	return t.render
}

// ReadLine reads a single line of input without its trailing newline.
// The underlying reader is scanned on its own goroutine so a blocked read
// gives way when ctx is done.
//
// Postcondition: Returns the next line, io.EOF when input is exhausted, or
// ctx.Err() when ctx ends first.
func (t *Terminal) ReadLine(ctx context.Context) (string, error) {
	t.start.Do(func() {
		t.lines = make(chan inputLine)
		go t.scan()
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		return l.text, l.err
	}
}

// scan feeds t.lines until the reader is exhausted, then closes it.
func (t *Terminal) scan() {
	defer close(t.lines)
	for t.in.Scan() {
		t.lines <- inputLine{text: strings.TrimRight(t.in.Text(), "\r")}
	}
	if err := t.in.Err(); err != nil {
		t.lines <- inputLine{err: fmt.Errorf("reading input: %w", err)}
	}
}

// Write sends text as-is.
func (t *Terminal) Write(text string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := io.WriteString(t.out, text)
	return err
}

// WriteLine sends text followed by a newline.
func (t *Terminal) WriteLine(text string) error {
	return t.Write(text + "\n")
}

// Post prints a chat card.
func (t *Terminal) Post(_ context.Context, m sheet.Message) error {
	return t.Write(t.render.RenderMessage(m))
}

// Prompt shows d and reads the answer. A blank line picks the default button
// for button dialogs and cancels input dialogs. An unrecognised reply to a
// button dialog asks again. End of input dismisses.
func (t *Terminal) Prompt(ctx context.Context, d sheet.Dialog) (sheet.Response, error) {
	if err := ctx.Err(); err != nil {
		return sheet.Response{}, err
	}
	if err := t.Write(t.render.RenderDialog(d) + "> "); err != nil {
		return sheet.Response{}, err
	}
	for {
		line, err := t.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return sheet.Response{}, nil
		}
		if err != nil {
			return sheet.Response{}, err
		}
		resp := answer(d, strings.TrimSpace(line))
		if resp.Button != "" || len(d.Buttons) == 0 {
			return resp, nil
		}
		if err := t.Write(fmt.Sprintf("Choose 1-%d.\n> ", len(d.Buttons))); err != nil {
			return sheet.Response{}, err
		}
	}
}

// answer maps a typed line to a dialog response.
func answer(d sheet.Dialog, line string) sheet.Response {
	submit := d.Default
	if submit == "" && len(d.Buttons) > 0 {
		submit = d.Buttons[0].ID
	}

	switch d.Input {
	case sheet.InputSelect:
		if line == "" {
			return sheet.Response{Button: sheet.ButtonCancel}
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(d.Options) {
			return sheet.Response{Button: submit, Value: d.Options[n-1].Value}
		}
		for _, o := range d.Options {
			if strings.EqualFold(line, o.Value) || strings.EqualFold(line, o.Label) {
				return sheet.Response{Button: submit, Value: o.Value}
			}
		}
		return sheet.Response{Button: sheet.ButtonCancel}

	case sheet.InputText:
		if line == "" {
			return sheet.Response{Button: sheet.ButtonCancel}
		}
		return sheet.Response{Button: submit, Value: line}

	default:
		if line == "" {
			return sheet.Response{Button: d.Default}
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(d.Buttons) {
			return sheet.Response{Button: d.Buttons[n-1].ID}
		}
		for _, b := range d.Buttons {
			if strings.EqualFold(line, b.ID) || strings.EqualFold(line, b.Label) {
				return sheet.Response{Button: b.ID}
			}
		}
		return sheet.Response{}
	}
}
