package smtp

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage_Headers(t *testing.T) {
	msg := string(buildMessage(
		mail.Address{Name: "Adanest", Address: "noreply@adanest.local"},
		"alice@example.com", "Reset", "<p>hi</p>",
	))

	assert.True(t, strings.HasPrefix(msg, "From: \"Adanest\" <noreply@adanest.local>\r\n"))
	assert.Contains(t, msg, "To: alice@example.com\r\n")
	assert.Contains(t, msg, "Subject: Reset\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.True(t, strings.HasSuffix(msg, "\r\n\r\n<p>hi</p>"))
}
