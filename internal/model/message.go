package model

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	KindNormal        = "normal"
	KindDocumentAdded = "document_added"
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Kind    string `json:"kind,omitempty"`
}
