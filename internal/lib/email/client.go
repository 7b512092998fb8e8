// Package email provides an email sending client.
//
// It uses Resend (resend-go) as the email provider and loads HTML templates
// from the filesystem to render email bodies.
package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/bookwarm/bookwarm-api/internal/config"
	"github.com/pkg/errors"
	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"
)

// DefaultTemplateDir is where templates are looked up, relative to the
// working directory of the process.
const DefaultTemplateDir = "templates/emails"

const senderName = "Bookwarm"

// sender is the part of the Resend API the client uses.
type sender interface {
	Send(params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// Client wraps the Resend client and a logger.
type Client struct {
	emails      sender
	from        string
	templateDir string
	logger      *zerolog.Logger
}

// NewClient creates an email Client from the integration config.
func NewClient(cfg *config.IntegrationConfig, logger *zerolog.Logger) *Client {
	return &Client{
		emails:      resend.NewClient(cfg.ResendAPIKey).Emails,
		from:        fmt.Sprintf("%s <%s>", senderName, cfg.EmailFrom),
		templateDir: DefaultTemplateDir,
		logger:      logger,
	}
}

// Render executes the named template with data.
func (c *Client) Render(templateName Template, data map[string]string) (string, error) {
	tmplPath := filepath.Join(c.templateDir, string(templateName)+".html")

	tmpl, err := template.ParseFiles(tmplPath)
	if err != nil {
		return "", errors.Wrapf(err, "failed to parse email template %s", templateName)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", templateName)
	}

	return body.String(), nil
}

// SendEmail renders templateName with data and sends it to a single recipient.
func (c *Client) SendEmail(to, subject string, templateName Template, data map[string]string) error {
	html, err := c.Render(templateName, data)
	if err != nil {
		return err
	}

	params := &resend.SendEmailRequest{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	}

	sent, err := c.emails.Send(params)
	if err != nil {
		return errors.Wrap(err, "failed to send email")
	}

	c.logger.Debug().
		Str("template", string(templateName)).
		Str("email_id", sent.Id).
		Msg("email accepted by provider")

	return nil
}
