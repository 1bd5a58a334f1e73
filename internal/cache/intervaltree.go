package cache

import (
	"slices"
	"sort"
)

// IntervalTree provides O(log n + k) overlap queries using a sorted-slice approach.
// Transcripts are loaded once and never modified after build.
type IntervalTree struct {
	intervals []interval
	maxEnd    []int64 // maxEnd[i] = max(end) for intervals[:i+1]
}

// interval is a half-open forward-strand span [begin, end).
type interval struct {
	begin      int64
	end        int64
	transcript *Transcript
}

// BuildIntervalTree creates an interval tree over the transcript spans,
// each widened by pad bases on both sides.
func BuildIntervalTree(transcripts []*Transcript, pad int64) *IntervalTree {
	if len(transcripts) == 0 {
		return &IntervalTree{}
	}

	intervals := make([]interval, len(transcripts))
	for i, t := range transcripts {
		intervals[i] = interval{
			begin:      t.TxRegion.Begin - pad,
			end:        t.TxRegion.End + pad,
			transcript: t,
		}
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		return intervals[i].begin < intervals[j].begin
	})

	maxEnd := make([]int64, len(intervals))
	maxEnd[0] = intervals[0].end
	for i := 1; i < len(intervals); i++ {
		maxEnd[i] = max(maxEnd[i-1], intervals[i].end)
	}

	return &IntervalTree{intervals: intervals, maxEnd: maxEnd}
}

// FindOverlaps returns all transcripts whose padded span contains the
// 0-based forward-strand offset pos, in span start order.
func (t *IntervalTree) FindOverlaps(pos int64) []*Transcript {
	if len(t.intervals) == 0 {
		return nil
	}

	// hi is the first index with begin > pos; candidates are [0, hi).
	hi := sort.Search(len(t.intervals), func(i int) bool {
		return t.intervals[i].begin > pos
	})

	var result []*Transcript
	for i := hi - 1; i >= 0; i-- {
		// No interval in [0, i] reaches pos.
		if t.maxEnd[i] <= pos {
			break
		}
		if t.intervals[i].end > pos {
			result = append(result, t.intervals[i].transcript)
		}
	}

	slices.Reverse(result)
	return result
}

// Len returns the number of indexed transcripts.
func (t *IntervalTree) Len() int {
	return len(t.intervals)
}
