package main

import (
	"context"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContactForm mirrors the fields of the contact section.
type ContactForm struct {
	FirstName string `form:"first-name"`
	LastName  string `form:"last-name"`
	Email     string `form:"email" binding:"required,email"`
	Message   string `form:"message" binding:"required"`
}

// FullName joins the name fields, skipping empty parts. Line breaks are
// folded into spaces so the result is safe in a mail header.
func (f ContactForm) FullName() string {
	name := strings.TrimSpace(headerSafe(f.FirstName) + " " + headerSafe(f.LastName))
	if name == "" {
		return "Anonymous"
	}
	return name
}

var headerBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

func headerSafe(s string) string {
	return strings.TrimSpace(headerBreaks.Replace(s))
}

// Mailer delivers contact form submissions.
type Mailer interface {
	Send(ctx context.Context, form ContactForm) error
}

type smtpMailer struct {
	cfg SMTPConfig
}

func newSMTPMailer(cfg SMTPConfig) *smtpMailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) Send(ctx context.Context, form ContactForm) error {
	if !m.cfg.ContactEnabled() {
		return fmt.Errorf("SMTP credentials not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subject := fmt.Sprintf("Portfolio Contact: %s", form.FullName())
	body := fmt.Sprintf(`
New contact form submission from your portfolio:

Name: %s
Email: %s
Message:
%s

---
Sent from your portfolio contact form
`, form.FullName(), form.Email, form.Message)

	msg := []byte("To: " + m.cfg.To + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"From: " + m.cfg.User + "\r\n" +
		"Reply-To: " + headerSafe(form.Email) + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.cfg.User, m.cfg.Pass, m.cfg.Host)
	if err := smtp.SendMail(m.cfg.Host+":"+m.cfg.Port, auth, m.cfg.User, []string{m.cfg.To}, msg); err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	return nil
}

// contactHandler answers the HTMX form post with a success or error fragment.
func contactHandler(mailer Mailer, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form ContactForm
		if err := c.ShouldBind(&form); err != nil {
			c.HTML(http.StatusUnprocessableEntity, "contact-error.html", gin.H{
				"error": "Please provide a valid email address and a message.",
			})
			return
		}

		if err := mailer.Send(c.Request.Context(), form); err != nil {
			logger.Error("contact mail failed", zap.Error(err))
			c.HTML(http.StatusOK, "contact-error.html", gin.H{
				"error": ContactFailure,
			})
			return
		}

		logger.Info("contact mail sent", zap.String("name", form.FullName()))
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": ContactSuccess,
		})
	}
}
