package genome

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContig() Contig {
	return Contig{ID: 0, Name: "chr1", Length: 1000}
}

func TestNewPosition(t *testing.T) {
	c := testContig()

	p, err := NewPosition(c, Forward, 100, OneBased)
	require.NoError(t, err)
	assert.Equal(t, int64(99), p.Pos)
	assert.Equal(t, int64(100), p.OneBased())

	_, err = NewPosition(c, Forward, 1000, ZeroBased)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = NewPosition(c, Forward, 0, OneBased)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestPosition_WithStrand(t *testing.T) {
	c := testContig()
	p, err := NewPosition(c, Forward, 0, ZeroBased)
	require.NoError(t, err)

	r := p.WithStrand(Reverse)
	assert.Equal(t, int64(999), r.Pos)
	assert.Equal(t, Reverse, r.Strand)
	assert.Equal(t, p, r.WithStrand(Forward))
}

func TestInterval(t *testing.T) {
	c := testContig()
	iv, err := NewInterval(c, Forward, 10, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(10), iv.Len())

	r := iv.WithStrand(Reverse)
	assert.Equal(t, int64(980), r.Begin)
	assert.Equal(t, int64(990), r.End)
	assert.Equal(t, iv, r.WithStrand(Forward))

	in, _ := NewPosition(c, Forward, 19, ZeroBased)
	out, _ := NewPosition(c, Forward, 20, ZeroBased)
	assert.True(t, iv.Contains(in))
	assert.True(t, r.Contains(in), "containment is strand independent")
	assert.False(t, iv.Contains(out))

	other, _ := NewInterval(c, Forward, 19, 30)
	assert.True(t, iv.Overlaps(other))
	assert.True(t, r.Overlaps(other))
	adjacent, _ := NewInterval(c, Forward, 20, 30)
	assert.False(t, iv.Overlaps(adjacent))

	inner, _ := NewInterval(c, Forward, 12, 18)
	assert.True(t, iv.ContainsInterval(inner))
	assert.False(t, inner.ContainsInterval(iv))

	_, err = NewInterval(c, Forward, 20, 10)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestNewVariant(t *testing.T) {
	c := testContig()
	pos, _ := NewPosition(c, Forward, 10, ZeroBased)

	tests := []struct {
		name    string
		ref     string
		alt     string
		wantErr bool
	}{
		{"SNV", "A", "T", false},
		{"lowercase", "a", "t", false},
		{"MNV", "AC", "GT", false},
		{"empty ref", "", "T", true},
		{"empty alt", "A", "", true},
		{"not DNA", "A", "X", true},
		{"ref equals alt", "G", "G", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := NewVariant(pos, tt.ref, tt.alt)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidVariant)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.ToUpper(tt.ref), v.Ref)
		})
	}
}

func TestVariant_WithStrand(t *testing.T) {
	c := testContig()
	pos, _ := NewPosition(c, Forward, 10, ZeroBased)

	v, err := NewVariant(pos, "A", "G")
	require.NoError(t, err)
	r := v.WithStrand(Reverse)
	assert.Equal(t, int64(989), r.Pos.Pos)
	assert.Equal(t, "T", r.Ref)
	assert.Equal(t, "C", r.Alt)
	assert.Equal(t, v, r.WithStrand(Forward))

	mnv, err := NewVariant(pos, "AC", "GT")
	require.NoError(t, err)
	rm := mnv.WithStrand(Reverse)
	assert.Equal(t, int64(988), rm.Pos.Pos, "anchor moves to the last reference base")
	assert.Equal(t, "GT", rm.Ref)
	assert.Equal(t, "AC", rm.Alt)
}

func TestVariant_HGVS(t *testing.T) {
	c := testContig()
	pos, _ := NewPosition(c, Reverse, 989, ZeroBased)
	v, err := NewVariant(pos, "T", "C")
	require.NoError(t, err)

	assert.Equal(t, "g.11A>G", v.HGVS())
	assert.Equal(t, "chr1:11:A>G", v.String())
}

func TestReverseComplement(t *testing.T) {
	tests := []struct {
		seq  string
		want string
	}{
		{"ATGC", "GCAT"},
		{"A", "T"},
		{"atgc", "gcat"},
		{"ANT", "ANT"},
		{"", ""},
		{strings.Repeat("A", 100), strings.Repeat("T", 100)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ReverseComplement(tt.seq), "ReverseComplement(%q)", tt.seq)
	}
}

func TestRefDict(t *testing.T) {
	d, err := BuiltinRefDict("GRCh37")
	require.NoError(t, err)
	assert.Equal(t, 25, d.Len())

	c1, ok := d.Resolve("chr1")
	require.True(t, ok)
	assert.Equal(t, int64(249250621), c1.Length)

	alias, ok := d.Resolve("1")
	require.True(t, ok)
	assert.Equal(t, c1, alias)

	mt, ok := d.Resolve("MT")
	require.True(t, ok)
	assert.Equal(t, "chrM", mt.Name)

	byID, ok := d.ByID(c1.ID)
	require.True(t, ok)
	assert.Equal(t, c1, byID)

	_, ok = d.Resolve("chrUn")
	assert.False(t, ok)

	_, err = BuiltinRefDict("mm10")
	assert.Error(t, err)
}

func TestRefDictFromFAI(t *testing.T) {
	index := "2\t500\t520\t60\t61\n1\t1000\t6\t60\t61\n"
	d, err := RefDictFromFAI(strings.NewReader(index))
	require.NoError(t, err)

	contigs := d.Contigs()
	require.Len(t, contigs, 2)
	assert.Equal(t, "1", contigs[0].Name, "ordered by file offset")
	assert.Equal(t, int64(1000), contigs[0].Length)

	c, ok := d.Resolve("chr2")
	require.True(t, ok)
	assert.Equal(t, 1, c.ID)
}
