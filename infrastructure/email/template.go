package email

import (
	"bytes"
	"html/template"
)

// notificationTemplate is the single transactional template: a short header
// line plus the notification message.
var notificationTemplate = template.Must(template.New("notification").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #222;">
    <h2 style="color: #50b5ff;">{{.Header}}</h2>
    <p>{{.Message}}</p>
    <p style="color: #888; font-size: 12px;">You can turn off these emails in your notification settings.</p>
  </body>
</html>`))

// RenderNotification renders the notification email body.
func RenderNotification(header, message string) (string, error) {
	var buf bytes.Buffer
	err := notificationTemplate.Execute(&buf, struct {
		Header  string
		Message string
	}{Header: header, Message: message})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
