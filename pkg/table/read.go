package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	errs "github.com/apopov/latfig/pkg/errors"
)

// Load reads a count table from path.
// A path that does not exist yields an ErrCodeMissingInput error; any parse
// problem yields ErrCodeMalformedInput.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeMissingInput, err, "table %s not found", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "open %s", path)
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Read parses a count table: the half-width T on the first line followed by
// 2T+1 rows of 2T+1 non-negative integers. Blank lines are ignored.
//
// Literals above [MaxSafeInteger] (including those that overflow uint64) are
// parsed with math/big and the whole table is stored wide.
func Read(r io.Reader) (*Table, error) {
	lines := newLineReader(r)

	header, lineNo, err := lines.next()
	if err == io.EOF {
		return nil, errs.New(errs.ErrCodeMalformedInput, "empty table: missing half-width")
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "read header")
	}
	halfWidth, err := strconv.Atoi(header)
	if err != nil || halfWidth < 0 {
		return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: half-width must be a non-negative integer, got %q", lineNo, header)
	}

	side := 2*halfWidth + 1
	var (
		narrow   []uint64
		overflow = map[int]*big.Int{}
	)
	for row := 0; row < side; row++ {
		line, lineNo, err := lines.next()
		if err == io.EOF {
			return nil, errs.New(errs.ErrCodeMalformedInput, "half-width %d needs %d rows, found %d", halfWidth, side, row)
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "read row %d", row)
		}
		fields := strings.Fields(line)
		if len(fields) != side {
			return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: half-width %d needs %d values, found %d", lineNo, halfWidth, side, len(fields))
		}
		for col, field := range fields {
			v, wide, err := parseCount(field)
			if err != nil {
				return nil, errs.New(errs.ErrCodeMalformedInput, "line %d, column %d: %v", lineNo, col+1, err)
			}
			if wide != nil {
				overflow[len(narrow)] = wide
			}
			narrow = append(narrow, v)
		}
	}

	if extra, lineNo, err := lines.next(); err == nil {
		return nil, errs.New(errs.ErrCodeMalformedInput, "line %d: unexpected data after %d rows: %.20q", lineNo, side, extra)
	} else if err != io.EOF {
		return nil, errs.Wrap(errs.ErrCodeMalformedInput, err, "read trailer")
	}

	t := &Table{
		HalfWidth: halfWidth,
		Rows:      coordinates(halfWidth),
		Cols:      coordinates(halfWidth),
	}
	if len(overflow) == 0 {
		t.narrowCells = narrow
		return t, nil
	}

	t.wide = true
	t.wideCells = make([]*big.Int, len(narrow))
	for i, v := range narrow {
		if w, ok := overflow[i]; ok {
			t.wideCells[i] = w
		} else {
			t.wideCells[i] = new(big.Int).SetUint64(v)
		}
	}
	return t, nil
}

// parseCount parses one cell. Float-safe values are returned as uint64;
// larger values are returned as a big.Int with a zero uint64.
func parseCount(s string) (uint64, *big.Int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, nil, fmt.Errorf("%q is not a non-negative integer", s)
		}
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err == nil && v <= MaxSafeInteger {
		return v, nil, nil
	}
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, nil, err
	}
	b, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return 0, nil, fmt.Errorf("%q is not a non-negative integer", s)
	}
	return 0, b, nil
}

// lineReader yields non-blank, trimmed lines together with their 1-based line number.
// Lines can be very long (thousands of large integers), so it reads with
// bufio.Reader rather than a size-capped Scanner.
type lineReader struct {
	r    *bufio.Reader
	line int
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 1<<16)}
}

func (l *lineReader) next() (string, int, error) {
	for {
		s, err := l.r.ReadString('\n')
		if s == "" && err != nil {
			return "", l.line, err
		}
		l.line++
		if s = strings.TrimSpace(s); s != "" {
			return s, l.line, nil
		}
		if err != nil {
			return "", l.line, err
		}
	}
}
