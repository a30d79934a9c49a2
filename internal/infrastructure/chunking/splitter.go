package chunking

import "strings"

// Splitter cuts text into chunks of roughly ChunkSize characters at
// whitespace boundaries, repeating about Overlap characters of the tail
// of each chunk at the head of the next. The final chunk may be shorter.
type Splitter struct {
	ChunkSize int
	Overlap   int
}

func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = 900
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= chunkSize {
		overlap = chunkSize / 4
	}
	return &Splitter{
		ChunkSize: chunkSize,
		Overlap:   overlap,
	}
}

func (s *Splitter) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	out := make([]string, 0, len(text)/s.ChunkSize+1)
	start := 0
	for start < len(words) {
		end := start
		length := 0
		for end < len(words) {
			wordLen := len(words[end])
			if length > 0 {
				wordLen++ // joining space
			}
			if length+wordLen > s.ChunkSize && length > 0 {
				break
			}
			length += wordLen
			end++
		}

		out = append(out, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}

		// Step back over the tail until roughly Overlap characters repeat,
		// always keeping forward progress.
		next := end
		back := 0
		for next > start+1 && back < s.Overlap {
			next--
			back += len(words[next]) + 1
		}
		start = next
	}
	return out
}
