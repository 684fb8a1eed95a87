package ranking

// Option applies a configuration option to the Index.
type Option func(*Index)

// WithSeed sets the seed of the priority generator. Two indexes built with
// the same seed and the same insertion history have identical shapes.
func WithSeed(seed int64) Option {
	return func(ix *Index) {
		ix.seed = seed
	}
}
