package emailsvc

import (
	"log"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/akademi/core"
	appfs "github.com/trezcool/akademi/fs"
)

type receipt struct {
	Donor    string
	Type     string
	Amount   float64
	Campaign string
	Date     time.Time
}

func TestConsoleServiceMock(t *testing.T) {
	conf := core.NewTestConfig()
	core.ParseEmailTemplates(appfs.FS, conf, stdLogger{log.Default()})
	svc := NewConsoleServiceMock(conf)

	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: "Jane", Address: "jane@akademi.test"}},
		Subject:      "Thank you",
		TemplateName: "donation_receipt",
		TemplateData: receipt{Donor: "Jane", Type: "Monthly", Amount: 25, Campaign: "Scholarships", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, msg.Attach(strings.NewReader("%PDF-1.3"), "receipt.pdf", "application/pdf"))
	noRecipient := &core.EmailMessage{Subject: "lost", BodyStr: "nobody reads this"}

	svc.SendMessages(msg, noRecipient)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].TextContent, "Monthly donation of 25.00")
	assert.Contains(t, sent[0].TextContent, "March 1, 2024")
	assert.Contains(t, sent[0].HTMLContent, "&ldquo;Scholarships&rdquo;")

	body, err := svc.format(sent[0])
	require.NoError(t, err)
	assert.Contains(t, body, "Subject: [Akademi] Thank you")
	assert.Contains(t, body, "Content-Type: multipart/mixed")
	assert.Contains(t, body, "filename=receipt.pdf")
	assert.Contains(t, body, "JVBERi0xLjM=", "base64 attachment")

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}
