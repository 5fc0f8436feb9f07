package lof

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Parser reads one LoF genotype table into a Study.
// Supports both plain and gzipped (.lof.gz) files.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	name       string
	lineNumber int
	logger     *zap.Logger
}

// NewParser creates a parser for the given file path.
func NewParser(path string) (*Parser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lof file: %w", err)
	}

	p := &Parser{
		file:   file,
		name:   studyName(path),
		logger: zap.NewNop(),
	}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read lof header: %w", err)
	}

	_, err = file.Seek(0, 0)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("seek lof file: %w", err)
	}

	// Gzip magic number (0x1f, 0x8b)
	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader.
func NewParserFromReader(name string, r io.Reader) *Parser {
	return &Parser{
		name:   name,
		reader: bufio.NewReader(r),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used for parse warnings.
func (p *Parser) SetLogger(l *zap.Logger) {
	p.logger = l
}

// Name returns the study name derived from the file path.
func (p *Parser) Name() string {
	return p.name
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Read consumes the entire table and returns the parsed Study.
// Malformed data lines produce warnings on the Study, not errors;
// only a missing header line is fatal.
func (p *Parser) Read() (*Study, error) {
	samples, err := p.parseHeader()
	if err != nil {
		return nil, err
	}

	study := &Study{
		Name:    p.name,
		Samples: samples,
		Records: make(map[VariantKey]VariantRecord),
	}

	for {
		line, err := p.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read variant line: %w", err)
		}
		atEOF := err == io.EOF
		if atEOF && line == "" {
			return study, nil
		}
		p.lineNumber++

		p.parseLine(strings.TrimRight(line, "\r\n"), study)

		if atEOF {
			return study, nil
		}
	}
}

// parseHeader reads the header line and extracts the sample names,
// which follow the fixed metadata columns.
func (p *Parser) parseHeader() ([]string, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, &ParseError{
					File:    p.name,
					Line:    p.lineNumber,
					Message: "no header line found",
				}
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < FixedColumns {
			return nil, &ParseError{
				File:    p.name,
				Line:    p.lineNumber,
				Message: fmt.Sprintf("header has %d columns, expected at least %d", len(fields), FixedColumns),
			}
		}
		return fields[FixedColumns:], nil
	}
}

// parseLine parses one data line into the study. A line with fewer than
// the fixed column count is recorded as a warning and contributes an
// empty genotype block under whatever key fields it does carry.
func (p *Parser) parseLine(line string, study *Study) {
	fields := strings.Split(line, "\t")

	var keyFields, genotypes []string
	if len(fields) < FixedColumns {
		w := ParseWarning{File: p.name, Line: p.lineNumber, Fields: len(fields)}
		study.Warnings = append(study.Warnings, w)
		p.logger.Warn("malformed lof table line",
			zap.String("file", p.name),
			zap.Int("line", p.lineNumber),
			zap.Int("fields", len(fields)))

		keyFields = make([]string, KeyColumns)
		copy(keyFields, fields)
	} else {
		keyFields = fields[:KeyColumns]
		// Fields between the key and the sample block carry stale
		// frequencies and carrier counts; skip them.
		genotypes = fields[FixedColumns:]
	}

	key := VariantKey{
		SNPID:       keyFields[0],
		Allele:      keyFields[1],
		Consequence: keyFields[2],
		GeneID:      keyFields[3],
		GeneSymbol:  keyFields[4],
	}

	rec := VariantRecord{TotalSamples: len(genotypes)}
	for _, g := range genotypes {
		switch g {
		case GenotypeHetCarrier:
			rec.HetCount++
		case GenotypeHomCarrier:
			rec.HomCount++
		}
	}
	rec.Genotypes = strings.Join(genotypes, "\t")

	if _, seen := study.Records[key]; !seen {
		study.Keys = append(study.Keys, key)
	}
	// Duplicate key: last occurrence wins, position stays put.
	study.Records[key] = rec
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// studyName derives a study label from a file path, trimming directory,
// .gz suffix and the final extension.
func studyName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, ".gz")
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	return name
}

// ParseError represents a fatal error while parsing a LoF table.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("lof parse error in %s at line %d: %s", e.File, e.Line, e.Message)
}

// ParseWarning records a malformed data line that was kept as a
// best-effort record without aborting the file read.
type ParseWarning struct {
	File   string
	Line   int
	Fields int
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("%s line %d: expected at least %d tab-separated fields, found %d", w.File, w.Line, FixedColumns, w.Fields)
}
