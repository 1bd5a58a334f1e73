package cache

import (
	"sort"

	"github.com/inodb/vibe-anno/internal/genome"
)

// Cache is the transcript catalogue. Load it with AddTranscript, then call
// BuildIndex; after that it is read-only and safe for concurrent lookups.
type Cache struct {
	transcripts map[int][]*Transcript // by contig ID
	contigs     map[int]genome.Contig
	trees       map[int]*IntervalTree
	byID        map[string]*Transcript
	flank       int64
}

// DefaultFlank is the span padding used until BuildIndex sets another.
const DefaultFlank = 1000

// New creates a new empty cache.
func New() *Cache {
	return &Cache{
		transcripts: make(map[int][]*Transcript),
		contigs:     make(map[int]genome.Contig),
		byID:        make(map[string]*Transcript),
		flank:       DefaultFlank,
	}
}

// AddTranscript adds a transcript to the cache. A transcript with an ID
// already present replaces the earlier one in ID lookups.
func (c *Cache) AddTranscript(t *Transcript) {
	contig := t.Contig()
	c.transcripts[contig.ID] = append(c.transcripts[contig.ID], t)
	c.contigs[contig.ID] = contig
	c.byID[t.ID] = t
	c.trees = nil
}

// BuildIndex builds the per-contig interval trees. Spans are padded by
// flank bases so upstream and downstream variants find their transcripts.
func (c *Cache) BuildIndex(flank int64) {
	c.flank = flank
	c.trees = make(map[int]*IntervalTree, len(c.transcripts))
	for id, ts := range c.transcripts {
		c.trees[id] = BuildIntervalTree(ts, flank)
	}
}

// Flank returns the span padding of lookups.
func (c *Cache) Flank() int64 {
	return c.flank
}

// FindTranscripts returns all transcripts whose flank-padded span contains p.
// Falls back to a linear scan with the same padding if BuildIndex has not
// been called since the last AddTranscript.
func (c *Cache) FindTranscripts(p genome.Position) []*Transcript {
	p = p.WithStrand(genome.Forward)
	if c.trees != nil {
		tree, ok := c.trees[p.Contig.ID]
		if !ok {
			return nil
		}
		return tree.FindOverlaps(p.Pos)
	}

	var result []*Transcript
	for _, t := range c.transcripts[p.Contig.ID] {
		if p.Pos >= t.TxRegion.Begin-c.flank && p.Pos < t.TxRegion.End+c.flank {
			result = append(result, t)
		}
	}
	return result
}

// GetTranscript returns a specific transcript by ID, or nil if not found.
func (c *Cache) GetTranscript(id string) *Transcript {
	return c.byID[id]
}

// TranscriptCount returns the total number of transcripts in the cache.
func (c *Cache) TranscriptCount() int {
	count := 0
	for _, transcripts := range c.transcripts {
		count += len(transcripts)
	}
	return count
}

// Contigs returns the contigs holding transcripts, ordered by ID.
func (c *Cache) Contigs() []genome.Contig {
	out := make([]genome.Contig, 0, len(c.contigs))
	for _, contig := range c.contigs {
		out = append(out, contig)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FindTranscriptsByContig returns all transcripts on a contig.
func (c *Cache) FindTranscriptsByContig(contig genome.Contig) []*Transcript {
	return c.transcripts[contig.ID]
}
