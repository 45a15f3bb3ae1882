package domain

// Payload is the JSON body posted to the webhook.
type Payload struct {
	User            User    `json:"user"`
	Content         string  `json:"content"`
	OriginalContent string  `json:"original_content"`
	Channel         Channel `json:"channel"`
	Guild           Guild   `json:"guild"`
	MessageID       string  `json:"message_id"`
	MessageLink     *string `json:"message_link"`
	Timestamp       string  `json:"timestamp"`
	Source          string  `json:"source"`
	IsAdmin         bool    `json:"is_admin"`
}

type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Tag           string `json:"tag"`
}

type Channel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Guild fields are null for direct messages.
type Guild struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
}
