package delta

import "strings"

const oldChunkPreview = 50

// ChunkChange describes one changed or appended prose chunk. Old is nil
// for chunks appended beyond the previous chunk count, and truncated to a
// short preview otherwise: the consumer already has the full old text.
type ChunkChange struct {
	Position int     `json:"position"`
	Old      *string `json:"old"`
	New      string  `json:"new"`
}

// ProsePayload carries positionally-compared paragraph chunk changes.
type ProsePayload struct {
	Instruction string        `json:"instruction"`
	TotalChunks int           `json:"total_chunks"`
	Changes     []ChunkChange `json:"changes"`
}

func (e *Encoder) encodeProse(oldContent, newContent string) (ProsePayload, bool) {
	oldChunks := chunkText(oldContent, e.cfg.MaxChunkSize)
	newChunks := chunkText(newContent, e.cfg.MaxChunkSize)

	var changes []ChunkChange
	for i, chunk := range newChunks {
		if i < len(oldChunks) {
			if oldChunks[i] != chunk {
				preview := truncate(oldChunks[i], oldChunkPreview)
				changes = append(changes, ChunkChange{Position: i, Old: &preview, New: chunk})
			}
			continue
		}
		changes = append(changes, ChunkChange{Position: i, Old: nil, New: chunk})
	}

	payload := ProsePayload{
		Instruction: "Replace the chunk at each position with its new text; append chunks past the previous count.",
		TotalChunks: len(newChunks),
		Changes:     changes,
	}
	return payload, len(changes) > 0
}

// chunkText splits text on blank lines and greedily re-packs consecutive
// paragraphs into chunks no larger than maxSize characters. A single
// paragraph larger than maxSize stays one chunk.
func chunkText(text string, maxSize int) []string {
	if text == "" {
		return nil
	}

	paragraphs := strings.Split(text, "\n\n")
	var chunks []string
	current := ""
	for _, p := range paragraphs {
		if current == "" {
			current = p
			continue
		}
		if len(current)+len("\n\n")+len(p) <= maxSize {
			current += "\n\n" + p
			continue
		}
		chunks = append(chunks, current)
		current = p
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
