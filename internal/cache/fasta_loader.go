package cache

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoSequence is returned when a sequence source has nothing for a transcript.
var ErrNoSequence = errors.New("no sequence for transcript")

// SequenceSource supplies the spliced, strand-corrected sequence of a transcript.
type SequenceSource interface {
	TranscriptSequence(r *TranscriptRecord) (string, error)
}

// fastaEntry is one transcript of a transcript FASTA.
type fastaEntry struct {
	seq    string
	cds    [2]int // 1-based inclusive, from a GENCODE "CDS:a-b" header field
	hasCDS bool
}

// FASTALoader holds the transcripts of a GENCODE (or Ensembl cDNA)
// transcript FASTA, keyed by unversioned transcript ID.
type FASTALoader struct {
	path    string
	entries map[string]fastaEntry
}

// NewFASTALoader creates a loader for path. Call Load before use.
func NewFASTALoader(path string) *FASTALoader {
	return &FASTALoader{path: path, entries: make(map[string]fastaEntry)}
}

// Load reads the file; a .gz suffix selects gzip decompression.
func (l *FASTALoader) Load() error {
	tf, err := openText(l.path, 16*1024*1024)
	if err != nil {
		return fmt.Errorf("open FASTA file: %w", err)
	}
	defer tf.Close()
	return l.read(tf.Scanner)
}

// parseFASTA reads FASTA text from r.
func (l *FASTALoader) parseFASTA(r io.Reader) error {
	return l.read(newScanner(r, 16*1024*1024))
}

func (l *FASTALoader) read(s *bufio.Scanner) error {
	var (
		id    string
		entry fastaEntry
		seq   strings.Builder
	)
	commit := func() {
		if id == "" || seq.Len() == 0 {
			return
		}
		entry.seq = strings.ToUpper(seq.String())
		l.entries[id] = entry
	}

	for s.Scan() {
		line := s.Text()
		if !strings.HasPrefix(line, ">") {
			seq.WriteString(strings.TrimSpace(line))
			continue
		}
		commit()
		id = headerID(line)
		entry = fastaEntry{}
		entry.cds[0], entry.cds[1], entry.hasCDS = parseCDSRange(line)
		seq.Reset()
	}
	commit()

	if err := s.Err(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}
	return nil
}

// headerID returns the unversioned transcript ID of a header line, e.g.
// ">ENST00000311936.8|ENSG00000133703.14|..." or ">ENST00000311936.8 cds".
func headerID(header string) string {
	header = strings.TrimPrefix(header, ">")
	if i := strings.IndexAny(header, "| \t"); i >= 0 {
		header = header[:i]
	}
	return stripVersion(header)
}

// parseCDSRange finds the "CDS:start-end" field of a GENCODE header.
func parseCDSRange(header string) (start, end int, ok bool) {
	for _, field := range strings.Split(header, "|") {
		rng, found := strings.CutPrefix(strings.TrimSpace(field), "CDS:")
		if !found {
			continue
		}
		a, b, found := strings.Cut(rng, "-")
		if !found {
			return 0, 0, false
		}
		s, err1 := strconv.Atoi(a)
		e, err2 := strconv.Atoi(b)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return s, e, true
	}
	return 0, 0, false
}

func (l *FASTALoader) entry(id string) (fastaEntry, bool) {
	e, ok := l.entries[stripVersion(id)]
	return e, ok
}

// GetSequence returns the transcript sequence, or "" if unknown. The
// version suffix of id is ignored.
func (l *FASTALoader) GetSequence(id string) string {
	e, _ := l.entry(id)
	return e.seq
}

// CDSRange returns the 1-based CDS range from the FASTA header, if present.
func (l *FASTALoader) CDSRange(id string) (start, end int, ok bool) {
	e, found := l.entry(id)
	if !found || !e.hasCDS {
		return 0, 0, false
	}
	return e.cds[0], e.cds[1], true
}

// TranscriptSequence implements SequenceSource.
func (l *FASTALoader) TranscriptSequence(r *TranscriptRecord) (string, error) {
	e, ok := l.entry(r.ID)
	if !ok {
		return "", fmt.Errorf("%w %s in %s", ErrNoSequence, r.ID, l.path)
	}
	return e.seq, nil
}

// SequenceCount returns the number of loaded sequences.
func (l *FASTALoader) SequenceCount() int {
	return len(l.entries)
}

// HasSequence reports whether a sequence was loaded for id.
func (l *FASTALoader) HasSequence(id string) bool {
	_, ok := l.entry(id)
	return ok
}
