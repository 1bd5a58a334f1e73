// Package vcf reads variant records from VCF files.
package vcf

// VariantParser yields VCF records one at a time.
type VariantParser interface {
	// Next returns the next record, or nil, nil at end of input.
	Next() (*Variant, error)

	Close() error

	// LineNumber is the input line of the record last returned.
	LineNumber() int
}
