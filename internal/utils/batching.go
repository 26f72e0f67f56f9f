package utils

// EMBED_BATCH_SIZE is the number of texts sent through the embedding
// pipeline per call.
const EMBED_BATCH_SIZE = 32

// Chunk splits items into consecutive slices of at most size elements.
// The returned slices share backing storage with items.
func Chunk[T any](items []T, size int) [][]T {
	if size <= 0 || len(items) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[i:end])
	}
	return chunks
}
