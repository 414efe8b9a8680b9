package domain

// Category groups FAQ records by line of business.
type Category string

const (
	CategoryCharter Category = "charter"
	CategorySales   Category = "sales"
)

// FAQRecord is a stored question/answer pair used to enrich prompts.
type FAQRecord struct {
	Question        string   `json:"question" yaml:"question"`
	Answer          string   `json:"answer" yaml:"answer"`
	TriggerKeywords []string `json:"trigger_keywords" yaml:"trigger_keywords"`
	Category        Category `json:"category" yaml:"category"`
}

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is a single message in a session transcript.
type Turn struct {
	Role    Role
	Content string
}
