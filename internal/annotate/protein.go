package annotate

// ProteinChangeKind classifies the effect of a change on the protein.
type ProteinChangeKind int

const (
	ProteinNoChange ProteinChangeKind = iota
	ProteinSubstitution
	ProteinStopGained
	ProteinStopLostExtension
	ProteinStartLost
	ProteinFrameshift
	ProteinUncertain
)

var proteinChangeKindNames = [...]string{
	ProteinNoChange:          "NO_CHANGE",
	ProteinSubstitution:      "SUBSTITUTION",
	ProteinStopGained:        "STOP_GAINED",
	ProteinStopLostExtension: "STOP_LOST_EXTENSION",
	ProteinStartLost:         "START_LOST",
	ProteinFrameshift:        "FRAMESHIFT",
	ProteinUncertain:         "UNCERTAIN",
}

func (k ProteinChangeKind) String() string {
	if k < 0 || int(k) >= len(proteinChangeKindNames) {
		return "UNKNOWN"
	}
	return proteinChangeKindNames[k]
}

// ProteinChange is the predicted change at the protein level.
type ProteinChange struct {
	Kind  ProteinChangeKind
	Pos   int64 // 1-based amino acid position
	RefAA byte  // single letter, '*' for stop
	AltAA byte
	// ExtLen is the number of codons from the old stop to the new stop for
	// extensions and frameshifts, or the codons read through the end of the
	// sequence when OpenEnded is set.
	ExtLen    int64
	OpenEnded bool
}

// UncertainProteinChange is the change reported when the protein effect
// cannot be stated, such as splice-site hits adjoining the CDS.
var UncertainProteinChange = ProteinChange{Kind: ProteinUncertain}

// ComputeProteinChange predicts the protein change of substituting alt at
// the 1-based coding position cdsPos. The reference codon is taken from cds,
// which includes the stop codon; tail is the transcript sequence after the
// CDS and is scanned when a stop codon is lost.
func ComputeProteinChange(cdsPos int64, alt byte, cds, tail string) ProteinChange {
	if cdsPos < 1 {
		return UncertainProteinChange
	}
	codonNum := (cdsPos-1)/3 + 1
	refCodon := codonAt(cds, codonNum)
	if refCodon == "" {
		return UncertainProteinChange
	}
	altCodon := mutateCodon(refCodon, int((cdsPos-1)%3), alt)
	refAA, altAA := TranslateCodon(refCodon), TranslateCodon(altCodon)

	pc := ProteinChange{Pos: codonNum, RefAA: refAA, AltAA: altAA}
	switch {
	case codonNum == 1 && refCodon != altCodon:
		pc.Kind = ProteinStartLost
	case refAA == '*' && altAA == '*':
		pc.Kind = ProteinNoChange
	case refAA == '*':
		pc.Kind = ProteinStopLostExtension
		pc.ExtLen, pc.OpenEnded = scanForStop(cds, tail, codonNum)
	case refAA == altAA:
		pc.Kind = ProteinNoChange
	case altAA == '*':
		pc.Kind = ProteinStopGained
	default:
		pc.Kind = ProteinSubstitution
	}
	return pc
}

// scanForStop looks for the next in-frame stop codon after codon lost,
// continuing past the CDS into tail. It returns the distance in codons from
// the lost stop to the new one, or the number of codons read and true when
// the sequence ends first.
func scanForStop(cds, tail string, lost int64) (int64, bool) {
	seq := cds[lost*3:] + tail
	var n int64
	for i := 0; i+3 <= len(seq); i += 3 {
		n++
		if IsStopCodon(seq[i : i+3]) {
			return n, false
		}
	}
	return n, true
}
