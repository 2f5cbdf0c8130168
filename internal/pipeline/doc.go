// Package pipeline turns the candidates of several detection strategies
// into one deduplicated, deterministically ordered list of regions.
//
// # Stages
//
//  1. Detect: run every configured strategy on the image, sequentially or
//     concurrently, and concatenate the results in strategy order
//  2. Resolve: greedy non-max suppression over the concatenation
//  3. Sort: reorder the survivors with the configured Ordering
//
// # Determinism
//
// The overlap resolver sorts by confidence with a stable sort, so candidates
// of equal confidence keep their concatenation order: strategy order first,
// then each strategy's own detection order. Concurrent runs store each
// strategy's output in a fixed slot, so Run returns the same slice whether
// or not Parallel is set.
//
// # Failure Modes
//
// Run is atomic: if any strategy fails, no regions are returned. RunFile
// additionally folds decode failures into an empty result, which is what
// the command-line extractor prints.
package pipeline
