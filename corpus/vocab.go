package corpus

// Vocab maps the words of one side of the corpus to dense ids.
type Vocab struct {
	ids   map[string]uint32
	words []string
}

func NewVocab() *Vocab {
	return &Vocab{ids: make(map[string]uint32)}
}

// Add returns the id of word, assigning the next free id if the word
// has not been seen before.
func (v *Vocab) Add(word string) uint32 {
	if id, ok := v.ids[word]; ok {
		return id
	}
	id := uint32(len(v.words))
	v.ids[word] = id
	v.words = append(v.words, word)
	return id
}

func (v *Vocab) ID(word string) (uint32, bool) {
	id, ok := v.ids[word]
	return id, ok
}

// Word returns the word with the given id, or "" if the id is unknown.
func (v *Vocab) Word(id uint32) string {
	if int(id) >= len(v.words) {
		return ""
	}
	return v.words[id]
}

func (v *Vocab) Len() uint32 {
	return uint32(len(v.words))
}
