package telegram

// Export internal functions for testing
var (
	RenderReview = renderReview
	SplitMessage = splitMessage
)
