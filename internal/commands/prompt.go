package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/acertijo-dev/balanza/internal/period"
)

// stdinConfirmer asks the operator on the terminal whether to replace
// an already-ingested period. The prompt blocks only the folder that
// raised the conflict.
type stdinConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func newStdinConfirmer() *stdinConfirmer {
	return &stdinConfirmer{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

// ConfirmReplace prompts until a line is read; anything other than an
// affirmative answer declines.
func (c *stdinConfirmer) ConfirmReplace(source string, p period.Period) (bool, error) {
	fmt.Fprintf(c.out, "El periodo %s ya existe. ¿Reemplazar con %s? [s/N]: ", p, source)

	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "s", "si", "sí":
		return true, nil
	default:
		return false, nil
	}
}
