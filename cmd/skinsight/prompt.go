package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

func promptLine(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptChoice presents numbered options and returns the selected value.
func promptChoice(in *bufio.Reader, out io.Writer, title string, options []string) (string, error) {
	fmt.Fprintln(out, title)
	for i, option := range options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, option)
	}
	for {
		answer, err := promptLine(in, out, "Auswahl")
		if err != nil {
			return "", err
		}
		index, err := strconv.Atoi(answer)
		if err == nil && index >= 1 && index <= len(options) {
			return options[index-1], nil
		}
		fmt.Fprintf(out, "Bitte eine Zahl zwischen 1 und %d eingeben.\n", len(options))
	}
}

// promptMulti accepts a comma-separated list of option numbers and returns
// the selected values. At least one is required.
func promptMulti(in *bufio.Reader, out io.Writer, title string, options []string) ([]string, error) {
	fmt.Fprintln(out, title)
	for i, option := range options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, option)
	}
	for {
		answer, err := promptLine(in, out, "Auswahl (z.B. 1,3)")
		if err != nil {
			return nil, err
		}
		var selected []string
		valid := true
		for _, field := range strings.Split(answer, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			index, err := strconv.Atoi(field)
			if err != nil || index < 1 || index > len(options) {
				valid = false
				break
			}
			selected = append(selected, options[index-1])
		}
		if valid && len(selected) > 0 {
			return selected, nil
		}
		fmt.Fprintln(out, "Bitte mindestens eine gültige Zahl eingeben.")
	}
}

func promptYes(in *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [j/N]: ", question)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "j", "ja", "y", "yes":
		return true
	default:
		return false
	}
}

func promptIntInRange(in *bufio.Reader, out io.Writer, label string, min, max int) (int, error) {
	for {
		answer, err := promptLine(in, out, fmt.Sprintf("%s (%d-%d)", label, min, max))
		if err != nil {
			return 0, err
		}
		value, err := strconv.Atoi(answer)
		if err == nil && value >= min && value <= max {
			return value, nil
		}
		fmt.Fprintf(out, "Bitte eine Zahl zwischen %d und %d eingeben.\n", min, max)
	}
}
