package domain

// Update is the subset of a Telegram webhook update the bot reads
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message is an incoming chat message
type Message struct {
	MessageID int64  `json:"message_id"`
	Text      string `json:"text"`
	Chat      *Chat  `json:"chat,omitempty"`
}

// Chat identifies where a reply should go
type Chat struct {
	ID int64 `json:"id"`
}

// ChatID returns the originating chat, or false when the update has nothing to reply to
func (u *Update) ChatID() (int64, bool) {
	if u == nil || u.Message == nil || u.Message.Chat == nil || u.Message.Chat.ID == 0 {
		return 0, false
	}
	return u.Message.Chat.ID, true
}
