package loopback

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/google/shlex"

	"devicecode-go/board"
	"devicecode-go/pinio"
)

// Console is an interactive front-end for bring-up: rather than only
// running the automated sweep, an operator can drive or read individual
// pins by typed command while watching the bus with a meter or scope.
// Recognized verbs:
//
//	drive <signal> <high|low>   set a signal pin as output at the given level
//	read <signal>               print a signal pin's current level
//	run                         run the full automated loopback + data sweep
//	quit                        exit the console
type Console struct {
	tester *Tester
	out    io.Writer
}

// NewConsole wraps tester for interactive use, writing prompts and
// responses to out.
func NewConsole(tester *Tester, out io.Writer) *Console {
	return &Console{tester: tester, out: out}
}

// Run reads commands from in until EOF, "quit", or a read error, writing
// one line of response per command.
func (c *Console) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(c.out, "scsiloop> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		done, err := c.dispatch(line)
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		if done {
			return nil
		}
	}
}

func (c *Console) dispatch(line string) (done bool, err error) {
	tokens, err := shlex.Split(line)
	if err != nil {
		return false, fmt.Errorf("tokenizing %q: %w", line, err)
	}
	if len(tokens) == 0 {
		return false, nil
	}

	switch strings.ToLower(tokens[0]) {
	case "quit", "exit":
		return true, nil

	case "run":
		c.runSweep()
		return false, nil

	case "drive":
		if len(tokens) != 3 {
			return false, fmt.Errorf("usage: drive <signal> <high|low>")
		}
		return false, c.drive(tokens[1], tokens[2])

	case "read":
		if len(tokens) != 2 {
			return false, fmt.Errorf("usage: read <signal>")
		}
		return false, c.read(tokens[1])

	default:
		return false, fmt.Errorf("unrecognized command %q", tokens[0])
	}
}

func (c *Console) drive(signal, levelWord string) error {
	pin, ok := c.tester.named[strings.ToLower(signal)]
	if !ok || pin == board.NoPin {
		return fmt.Errorf("unknown signal %q", signal)
	}
	var lvl board.Level
	switch strings.ToLower(levelWord) {
	case "high", "1":
		lvl = board.High
	case "low", "0":
		lvl = board.Low
	default:
		return fmt.Errorf("level must be high or low, got %q", levelWord)
	}
	c.tester.configure(pin, pinio.Output)
	c.tester.set(pin, lvl)
	fmt.Fprintf(c.out, "%s driven %s\n", signal, lvl)
	return nil
}

func (c *Console) read(signal string) error {
	pin, ok := c.tester.named[strings.ToLower(signal)]
	if !ok || pin == board.NoPin {
		return fmt.Errorf("unknown signal %q", signal)
	}
	raw, err := c.tester.pins.Acquire()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s = %s\n", signal, c.tester.read(raw, pin))
	return nil
}

func (c *Console) runSweep() {
	fmt.Fprintln(c.out, "running loopback connection sweep...")
	for _, msg := range c.tester.RunLoopbackTest() {
		fmt.Fprintln(c.out, msg)
	}
	fmt.Fprintln(c.out, "running data input sweep...")
	for _, msg := range c.tester.RunDataInputTest() {
		fmt.Fprintln(c.out, msg)
	}
	fmt.Fprintln(c.out, "running data output sweep...")
	for _, msg := range c.tester.RunDataOutputTest() {
		fmt.Fprintln(c.out, msg)
	}
	fmt.Fprintln(c.out, "done")
}
