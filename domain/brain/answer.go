package brain

// CitedMemory is a single piece of retrieved context the answer relies
// on. Excerpt is verbatim text from the context block.
type CitedMemory struct {
	id      string
	excerpt string
	date    string
	kind    string
}

// NewCitedMemory creates a CitedMemory.
func NewCitedMemory(id, excerpt, date, kind string) CitedMemory {
	return CitedMemory{id: id, excerpt: excerpt, date: date, kind: kind}
}

// ID returns the cited event identifier.
func (c CitedMemory) ID() string { return c.id }

// Excerpt returns the verbatim excerpt from the retrieved context.
func (c CitedMemory) Excerpt() string { return c.excerpt }

// Date returns the cited event's date.
func (c CitedMemory) Date() string { return c.date }

// Kind returns the cited event's type.
func (c CitedMemory) Kind() string { return c.kind }

// Answer is the grounded response to a question. Conversational
// callers always receive this shape, degraded or not.
type Answer struct {
	userResponse    string
	relatedMemories []CitedMemory
	degraded        bool
}

// NewAnswer creates an Answer.
func NewAnswer(userResponse string, related []CitedMemory) Answer {
	memories := make([]CitedMemory, len(related))
	copy(memories, related)
	return Answer{userResponse: userResponse, relatedMemories: memories}
}

// NewDegradedAnswer creates the canned answer used when retrieval finds
// nothing or generation fails.
func NewDegradedAnswer(userResponse string) Answer {
	return Answer{
		userResponse:    userResponse,
		relatedMemories: []CitedMemory{},
		degraded:        true,
	}
}

// UserResponse returns the natural-language answer.
func (a Answer) UserResponse() string { return a.userResponse }

// RelatedMemories returns the cited memories backing the answer.
func (a Answer) RelatedMemories() []CitedMemory {
	memories := make([]CitedMemory, len(a.relatedMemories))
	copy(memories, a.relatedMemories)
	return memories
}

// Degraded reports whether this is a fallback answer produced without a
// successful generation call.
func (a Answer) Degraded() bool { return a.degraded }
