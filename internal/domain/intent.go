package domain

// Intent is the sanitized output of the intent extractor: the English
// query plus whatever filters and aspect hints survived validation.
// Zero values mean "not expressed": empty BoroughEN is no borough filter,
// MinRating 0 is no rating filter, an aspect missing from Hints is no
// opinion (an explicit 0.0 hint is kept and overrides stored preferences).
type Intent struct {
	QueryEN      string
	BoroughEN    string
	DesiredTypes []string
	MinRating    float64
	Hints        AspectWeights
}
