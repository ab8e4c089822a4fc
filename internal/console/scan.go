package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Scan reads lines from r and sends the parsed commands on out until r is
// exhausted or ctx is cancelled. Blank lines are skipped. out is not closed.
func Scan(ctx context.Context, r io.Reader, p *Parser, out chan<- Command) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		cmd := p.Parse(sc.Text())
		if cmd.Raw == "" {
			continue
		}
		select {
		case out <- cmd:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read console: %w", err)
	}
	return nil
}
