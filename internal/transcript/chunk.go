package transcript

import "strings"

// Chunk splits normalized page text into ordered segments of at most size
// characters, accumulating whole sentences greedily. Oversized sentences
// fall back to raw slicing. A second pass prepends the trailing overlap
// characters of each finished chunk to its successor so adjacent segments
// share context. Empty input yields no segments.
func Chunk(text string, size, overlap int) []string {
	if text == "" || size <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}

	sentences := splitSentences(text)

	var chunks []string
	var cur string
	for _, s := range sentences {
		if len(cur)+len(s) <= size {
			if cur != "" {
				cur += " " + s
			} else {
				cur = s
			}
			continue
		}

		if cur != "" {
			chunks = append(chunks, strings.TrimSpace(cur))
		}

		if len(s) > size {
			chunks = append(chunks, sliceRaw(s, size, overlap)...)
			cur = ""
		} else {
			cur = s
		}
	}
	if cur != "" {
		chunks = append(chunks, strings.TrimSpace(cur))
	}

	// context overlap: each chunk after the first is prefixed with the tail
	// of the previous (already merged) chunk
	if overlap > 0 && len(chunks) > 1 {
		merged := make([]string, 0, len(chunks))
		for i, c := range chunks {
			if i == 0 {
				merged = append(merged, c)
				continue
			}
			prev := []rune(merged[len(merged)-1])
			frag := prev
			if len(prev) > overlap {
				frag = prev[len(prev)-overlap:]
			}
			merged = append(merged, strings.TrimSpace(string(frag)+" "+c))
		}
		chunks = merged
	}

	return chunks
}

// sliceRaw cuts a sentence longer than size into fixed-width windows. The
// stride is size-overlap; if overlap swallows the whole window the stride
// degrades to size so the slicer always advances.
func sliceRaw(s string, size, overlap int) []string {
	stride := size - overlap
	if stride <= 0 {
		stride = size
	}
	runes := []rune(s)
	var out []string
	for start := 0; start < len(runes); start += stride {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[start:end]))
		if piece != "" {
			out = append(out, piece)
		}
		if end == len(runes) {
			break
		}
	}
	return out
}

// splitSentences cuts text at whitespace runs that follow '.', '?', '!'
// or a newline, consuming the whitespace.
func splitSentences(text string) []string {
	var parts []string
	start, i := 0, 0
	for i < len(text) {
		c := text[i]
		if isSpace(c) && i > start {
			switch text[i-1] {
			case '.', '?', '!', '\n':
				parts = append(parts, text[start:i])
				for i < len(text) && isSpace(text[i]) {
					i++
				}
				start = i
				continue
			}
		}
		i++
	}
	if start < len(text) {
		parts = append(parts, text[start:])
	}
	return parts
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}
