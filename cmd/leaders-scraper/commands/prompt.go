package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// PromptChoice writes `question` to `out` and reads lines from `in` until
// one of `choices` is entered. Answers are compared lowercased and trimmed.
func PromptChoice(in *bufio.Reader, out io.Writer, question string, choices []string, invalid string) (string, error) {
	for {
		fmt.Fprint(out, question)

		line, err := in.ReadString('\n')
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer != "" && slices.Contains(choices, answer) {
			return answer, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("no answer to '%s': %w", strings.TrimSpace(question), io.ErrUnexpectedEOF)
			}
			return "", err
		}

		fmt.Fprintln(out, invalid)
	}
}

func promptParallel(in *bufio.Reader, out io.Writer) (bool, error) {
	answer, err := PromptChoice(
		in, out,
		"Use multiprocessing for Wikipedia scraping? (y/n): ",
		[]string{"y", "n"},
		"Invalid input. Please type 'y' or 'n'.",
	)
	if err != nil {
		return false, err
	}
	return answer == "y", nil
}

func promptFormat(in *bufio.Reader, out io.Writer) (string, error) {
	return PromptChoice(
		in, out,
		"How would you like to save the data? Type 'json' or 'csv': ",
		[]string{"json", "csv"},
		"Invalid choice. Please type only 'json' or 'csv'.",
	)
}
