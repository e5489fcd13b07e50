package evertext

// HistoryLimit is the number of characters of terminal output kept for
// multi-chunk parsing.
const HistoryLimit = 10000

// history is a rolling window over the most recent output characters.
type history struct {
	runes []rune
	limit int
}

func newHistory(limit int) *history {
	return &history{limit: limit}
}

func (h *history) Append(text string) {
	h.runes = append(h.runes, []rune(text)...)
	if excess := len(h.runes) - h.limit; excess > 0 {
		h.runes = append(h.runes[:0], h.runes[excess:]...)
	}
}

func (h *history) String() string {
	return string(h.runes)
}

func (h *history) Len() int {
	return len(h.runes)
}
