package workload

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sarchlab/stratum/mem/mem"
	"github.com/sirupsen/logrus"
)

// ErrMalformedLine is wrapped by the error of every skipped line.
var ErrMalformedLine = errors.New("malformed trace line")

// A SkippedLine is a line of a trace that could not be parsed.
type SkippedLine struct {
	LineNo int
	Text   string
	Err    error
}

// ParseResult is everything a parser learned from a trace.
type ParseResult struct {
	Ops     []Op
	Skipped []SkippedLine

	// Err is set if the trace could not be read. Ops holds whatever was
	// parsed before the failure.
	Err error
}

// A Parser turns trace text into ops. Problems are reported as diagnostics
// and never stop the parsing.
type Parser struct {
	log logrus.FieldLogger
}

// NewParser creates a parser that logs to the standard logger.
func NewParser() *Parser {
	return &Parser{log: logrus.StandardLogger()}
}

// WithLogger sets the logger that receives the diagnostics.
func (p *Parser) WithLogger(log logrus.FieldLogger) *Parser {
	p.log = log
	return p
}

// ParseFile parses the trace stored at path. An unreadable file results in no
// ops and an error in the result.
func (p *Parser) ParseFile(path string) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		err = fmt.Errorf("opening trace: %w", err)
		p.log.WithField("path", path).WithError(err).
			Error("could not open trace file")

		return ParseResult{Err: err}
	}
	defer f.Close()

	result := p.Parse(f)
	if result.Err != nil {
		p.log.WithField("path", path).WithError(result.Err).
			Error("could not read trace file")
	}

	return result
}

// MaxLineLength is the longest trace line the parser accepts. Longer lines
// are skipped.
const MaxLineLength = 4096

// Parse parses a trace with one op per line.
func (p *Parser) Parse(r io.Reader) ParseResult {
	result := ParseResult{}

	reader := bufio.NewReader(r)
	lineNo := 0
	for {
		text, truncated, err := readLine(reader)
		if err == io.EOF {
			break
		}

		if err != nil {
			result.Err = fmt.Errorf("reading trace: %w", err)
			break
		}

		lineNo++

		if truncated {
			p.skip(&result, lineNo, text, fmt.Errorf(
				"%w: longer than %d bytes", ErrMalformedLine, MaxLineLength))
			continue
		}

		op, ok, err := parseLine(text)
		if err != nil {
			p.skip(&result, lineNo, text, err)
			continue
		}

		if ok {
			result.Ops = append(result.Ops, op)
		}
	}

	return result
}

// readLine reads a whole line and keeps at most MaxLineLength bytes of it.
func readLine(r *bufio.Reader) (string, bool, error) {
	var (
		buf       []byte
		truncated bool
	)

	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			return string(buf), truncated, err
		}

		room := MaxLineLength - len(buf)
		if len(chunk) > room {
			chunk = chunk[:room]
			truncated = true
		}
		buf = append(buf, chunk...)

		if !isPrefix {
			return string(buf), truncated, nil
		}
	}
}

func (p *Parser) skip(
	result *ParseResult,
	lineNo int,
	text string,
	err error,
) {
	result.Skipped = append(result.Skipped, SkippedLine{
		LineNo: lineNo,
		Text:   text,
		Err:    err,
	})

	p.log.WithFields(logrus.Fields{
		"line": lineNo,
		"text": text,
	}).WithError(err).Warn("skipping invalid trace line")
}

// parseLine returns false without an error for lines that carry no op.
func parseLine(text string) (Op, bool, error) {
	line := strings.TrimSpace(text)
	if line == "" || strings.HasPrefix(line, "#") {
		return Op{}, false, nil
	}

	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Op{}, false, fmt.Errorf("%w: expected <op> <address>, got %d fields",
			ErrMalformedLine, len(fields))
	}

	kind, err := parseKind(fields[0])
	if err != nil {
		return Op{}, false, err
	}

	addr, err := parseAddress(fields[1])
	if err != nil {
		return Op{}, false, err
	}

	return Op{Kind: kind, Address: addr}, true, nil
}

func parseKind(s string) (mem.AccessKind, error) {
	switch strings.ToUpper(s) {
	case "L":
		return mem.AccessKindLoad, nil
	case "S":
		return mem.AccessKindStore, nil
	default:
		return 0, fmt.Errorf("%w: unknown op %q", ErrMalformedLine, s)
	}
}

func parseAddress(s string) (uint64, error) {
	digits := s
	if len(digits) > 2 && (digits[:2] == "0x" || digits[:2] == "0X") {
		digits = digits[2:]
	}

	addr, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid address %q", ErrMalformedLine, s)
	}

	return addr, nil
}
