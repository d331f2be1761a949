package clix

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// ReadInput resolves the single text to score from, in order: the --text flag,
// one positional argument, or stdin when that argument is "-".
func ReadInput(flags *pflag.FlagSet, args []string, stdin io.Reader) (string, error) {
	if flags.Changed("text") {
		if len(args) > 0 {
			return "", errors.New("pass the URL either with --text or as an argument, not both")
		}
		return flags.GetString("text")
	}

	switch len(args) {
	case 0:
		return "", errors.New("missing URL: pass it as an argument, with --text, or use - to read stdin")
	case 1:
	default:
		return "", fmt.Errorf("expected a single URL, got %d arguments", len(args))
	}

	if args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
