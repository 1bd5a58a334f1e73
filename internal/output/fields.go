package output

import (
	"strconv"
	"strings"

	"github.com/inodb/vibe-anno/internal/annotate"
)

// featureType is "Transcript" for transcript annotations and "" for
// intergenic ones.
func featureType(ann *annotate.Annotation) string {
	if ann.TranscriptID == "" {
		return ""
	}
	return "Transcript"
}

func canonicalFlag(ann *annotate.Annotation) string {
	if ann.IsCanonical {
		return "YES"
	}
	return ""
}

func orDot(s string) string {
	if s == "" {
		return "."
	}
	return s
}

func formatQual(q float64) string {
	if q == 0 {
		return "."
	}
	return strconv.FormatFloat(q, 'g', -1, 64)
}

// csqEscaper replaces characters that would break a CSQ entry inside INFO.
var csqEscaper = strings.NewReplacer(
	",", "&",
	";", "%3B",
	"=", "%3D",
	"|", "&",
	" ", "_",
)
