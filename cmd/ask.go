package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/viant/mcp-agent/agent"
)

// AskCmd sends one message to the agent.  The message is taken from -m, the
// positional arguments or stdin, in that order.
type AskCmd struct {
	Message    string `short:"m" long:"message" description:"message to send"`
	TimeoutSec int    `long:"timeout" description:"Seconds to wait for the conversation to finish" default:"600"`
}

func (c *AskCmd) Execute(args []string) error {
	message, err := c.message(args, os.Stdin)
	if err != nil {
		return err
	}
	ctx := context.Background()
	if c.TimeoutSec > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.TimeoutSec)*time.Second)
		defer cancel()
	}
	a, err := newAgent(ctx)
	if err != nil {
		return err
	}
	reply, err := a.Send(ctx, message)
	if reply != "" {
		fmt.Println(reply)
	}
	if errors.Is(err, agent.ErrTurnLimit) {
		fmt.Fprintln(os.Stderr, err)
		return nil
	}
	return err
}

func (c *AskCmd) message(args []string, stdin *os.File) (string, error) {
	if text := strings.TrimSpace(c.Message); text != "" {
		return text, nil
	}
	if text := strings.TrimSpace(strings.Join(args, " ")); text != "" {
		return text, nil
	}
	if isTerminal(stdin) {
		return "", fmt.Errorf("message must be provided via -m/--message, arguments or stdin")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read message: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("message is empty")
	}
	return text, nil
}
