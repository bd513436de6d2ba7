package handlers

import (
	"bytes"
	"html/template"
	"time"

	"housemanagement/internal/models"
)

var messageListTemplate = template.Must(template.New("messages").Parse(`<div id="chat-messages" class="chat-messages">
{{- range .Messages}}
  <div class="chat-message{{if .FromAdmin}} chat-message--admin{{end}}{{if .Mine}} chat-message--mine{{end}}" data-message-id="{{.ID}}">
    <div class="chat-message__meta"><span class="chat-message__sender">{{.Sender}}</span> <time datetime="{{.SentAt.Format "2006-01-02T15:04:05Z07:00"}}">{{.SentAt.Format "02/01/2006 15:04"}}</time></div>
    <div class="chat-message__body">{{.Content}}</div>
  </div>
{{- else}}
  <p class="chat-messages__empty">ยังไม่มีข้อความ</p>
{{- end}}
</div>
`))

type messageView struct {
	ID        uint
	Sender    string
	Content   string
	FromAdmin bool
	Mine      bool
	SentAt    time.Time
}

// renderMessageList builds the fragment that replaces the chat pane.
func renderMessageList(viewer *models.User, messages []models.Message) ([]byte, error) {
	views := make([]messageView, 0, len(messages))
	for i := range messages {
		message := &messages[i]
		sender := ""
		if message.Sender != nil {
			sender = message.Sender.DisplayName()
		}
		views = append(views, messageView{
			ID:        message.ID,
			Sender:    sender,
			Content:   message.Content,
			FromAdmin: message.IsFromAdmin(),
			Mine:      message.SenderID == viewer.ID,
			SentAt:    message.CreatedAt,
		})
	}

	var buf bytes.Buffer
	if err := messageListTemplate.Execute(&buf, struct{ Messages []messageView }{views}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
