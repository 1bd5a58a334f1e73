package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
)

const maxLineSize = 16 * 1024 * 1024

// Parser reads records from a VCF stream.
type Parser struct {
	scanner *bufio.Scanner
	closers []io.Closer
	line    int
	header  Header
}

// NewParser opens a VCF file; "-" reads stdin. Plain text, BGZF (bgzip)
// and plain gzip input are detected from the first bytes.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vcf file: %w", err)
	}

	r, closer, err := decompress(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	p := newParser(r)
	if closer != nil {
		p.closers = append(p.closers, closer)
	}
	p.closers = append(p.closers, f)

	if err := p.readHeader(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// NewParserFromReader creates a parser over uncompressed VCF text.
func NewParserFromReader(r io.Reader) (*Parser, error) {
	p := newParser(r)
	if err := p.readHeader(); err != nil {
		return nil, err
	}
	return p, nil
}

func newParser(r io.Reader) *Parser {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Parser{scanner: s}
}

// decompress sniffs the gzip magic number. Compressed input is read as
// BGZF when its block headers allow and as plain gzip otherwise.
func decompress(f *os.File) (io.Reader, io.Closer, error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("read vcf header: %w", err)
	}
	if len(magic) < 2 || magic[0] != 0x1f || magic[1] != 0x8b {
		return br, nil, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("seek vcf file: %w", err)
	}
	if bg, err := bgzf.NewReader(f, 1); err == nil {
		return bg, bg, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("seek vcf file: %w", err)
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("create gzip reader: %w", err)
	}
	return gz, gz, nil
}

// scan advances to the next line. It returns false at end of input.
func (p *Parser) scan() (string, bool, error) {
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", false, fmt.Errorf("read line %d: %w", p.line+1, err)
		}
		return "", false, nil
	}
	p.line++
	return strings.TrimRight(p.scanner.Text(), "\r"), true, nil
}

func (p *Parser) readHeader() error {
	for {
		line, ok, err := p.scan()
		if err != nil {
			return err
		}
		if !ok {
			return &ParseError{Line: p.line, Message: "no #CHROM header line found"}
		}

		switch {
		case strings.HasPrefix(line, "##"):
			p.header.Meta = append(p.header.Meta, line)
		case strings.HasPrefix(line, "#CHROM"):
			p.header.Columns = line
			if cols := strings.Split(line, "\t"); len(cols) > 9 {
				p.header.Samples = cols[9:]
			}
			return nil
		default:
			return &ParseError{Line: p.line, Message: "expected #CHROM header line"}
		}
	}
}

// Next returns the next record. Blank lines are skipped.
func (p *Parser) Next() (*Variant, error) {
	for {
		line, ok, err := p.scan()
		if err != nil || !ok {
			return nil, err
		}
		if line == "" {
			continue
		}
		return p.parseRecord(line)
	}
}

func (p *Parser) parseRecord(line string) (*Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, &ParseError{
			Line:    p.line,
			Message: fmt.Sprintf("expected at least 8 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || pos < 1 {
		return nil, &ParseError{Line: p.line, Message: fmt.Sprintf("invalid position: %s", fields[1])}
	}

	v := &Variant{
		Chrom:   fields[0],
		Pos:     pos,
		ID:      fields[2],
		Ref:     strings.ToUpper(fields[3]),
		Alt:     strings.ToUpper(fields[4]),
		Filter:  fields[6],
		Info:    parseInfo(fields[7]),
		RawInfo: fields[7],
		Line:    p.line,
	}
	v.RecordAlt = v.Alt
	if fields[5] != "." {
		v.Qual, _ = strconv.ParseFloat(fields[5], 64)
	}
	if len(fields) > 8 {
		v.SampleColumns = strings.Join(fields[8:], "\t")
	}
	return v, nil
}

// parseInfo splits an INFO column into key/value pairs; flags map to "".
func parseInfo(info string) map[string]string {
	result := make(map[string]string)
	if info == "." || info == "" {
		return result
	}
	for _, kv := range strings.Split(info, ";") {
		key, value, _ := strings.Cut(kv, "=")
		result[key] = value
	}
	return result
}

// SplitMultiAllelic returns one record per ALT allele. The split records
// share the INFO map of v and keep its ALT column in RecordAlt.
func SplitMultiAllelic(v *Variant) []*Variant {
	alts := strings.Split(v.Alt, ",")
	if len(alts) == 1 {
		return []*Variant{v}
	}

	out := make([]*Variant, len(alts))
	for i, alt := range alts {
		split := *v
		split.Alt = alt
		split.RecordAlt = v.Alt
		out[i] = &split
	}
	return out
}

// Header returns the parsed header.
func (p *Parser) Header() *Header {
	return &p.header
}

// SampleNames returns the sample names of the #CHROM line, or nil.
func (p *Parser) SampleNames() []string {
	return p.header.Samples
}

// LineNumber returns the line of the record last read.
func (p *Parser) LineNumber() int {
	return p.line
}

// Close releases the decompressor and the file, if any.
func (p *Parser) Close() error {
	var first error
	for _, c := range p.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.closers = nil
	return first
}

// ParseError is a malformed VCF line.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
