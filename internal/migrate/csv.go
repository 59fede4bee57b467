package migrate

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"strings"
)

// readTable reads a delimited file into rows.
func readTable(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseTable(f)
}

// parseTable parses delimited data. The delimiter is sniffed from the first
// line: exports are comma-separated, but semicolon, tab, and pipe variants
// show up in the wild. Ragged rows are accepted; the renderer squares them
// against the header.
func parseTable(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	sample, err := br.Peek(1024)
	if err != nil && err != io.EOF {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(string(sample))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

func sniffDelimiter(sample string) rune {
	line := sample
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	best := ','
	bestCount := strings.Count(line, ",")
	for _, c := range []rune{';', '\t', '|'} {
		if n := strings.Count(line, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}
