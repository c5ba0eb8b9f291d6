package market

// ContextRequest identifies what market context is being asked for.
type ContextRequest struct {
	Material  string `json:"material"`
	Region    string `json:"region"`
	YearMonth string `json:"year_month"` // YYYY-MM
}

// ContextResult is the narrow response contract: one caveat sentence plus
// a source link. The engine passes it through untouched.
type ContextResult struct {
	Sentence   string `json:"sentence"`
	SourceLink string `json:"source_link"`
}

// chatRequest is the Perplexity chat-completions request body.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat-completions response we read.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Citations []string `json:"citations"`
}
