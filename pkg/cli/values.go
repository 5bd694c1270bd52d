package cli

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// parseValues accepts values spread over args, separated by commas or spaces.
func parseValues(args []string) ([]float64, error) {
	var values []float64
	for _, arg := range args {
		fields := strings.FieldsFunc(arg, func(r rune) bool {
			return r == ',' || r == ';' || unicode.IsSpace(r)
		})
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, errors.Errorf("invalid value %q", f)
			}
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, errors.New("values required")
	}
	return values, nil
}

type inputLine struct {
	Line   int
	Values []float64
	Err    error
}

// readLines parses one sequence per line from path, "-" reads stdin.
// Blank lines and lines starting with # are skipped.
func readLines(path string) ([]*inputLine, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open input file: %s", path)
		}
		defer f.Close()
		r = f
	}

	var lines []*inputLine
	s := bufio.NewScanner(r)
	n := 0
	for s.Scan() {
		n++
		text := strings.TrimSpace(s.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		v, err := parseValues([]string{text})
		lines = append(lines, &inputLine{Line: n, Values: v, Err: err})
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read input: %s", path)
	}
	return lines, nil
}
