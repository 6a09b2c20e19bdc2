package seomate

// Converter converts between article body formats.
type Converter interface {
	// Convert transforms the input into the target format.
	Convert(input string) (string, error)
}
