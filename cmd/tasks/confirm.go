package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/amonks/tasks/internal/editor"
	internalstrings "github.com/amonks/tasks/internal/strings"
)

var errConfirmationRequired = errors.New("confirmation required: re-run with --yes")

// confirm asks a yes/no question on stdin. With yes set it returns true
// without asking; without a terminal it refuses.
func confirm(question string, yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !editor.IsInteractive() {
		return false, errConfirmationRequired
	}
	return askYesNo(os.Stdin, question)
}

func askYesNo(in io.Reader, question string) (bool, error) {
	fmt.Printf("%s (y/n) ", question)
	answer, err := readLine(bufio.NewReader(in))
	if err != nil {
		return false, err
	}
	return internalstrings.IsAffirmative(answer), nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("unexpected end of input")
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
