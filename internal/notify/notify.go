// Package notify builds and delivers review reminders, by email or through
// the desktop notification daemon.
package notify

import (
	"errors"
	"fmt"
	"html/template"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/dshills/riskwatch/internal/config"
	"github.com/dshills/riskwatch/internal/report"
)

// ErrNoEmailConfig reports that neither the config file nor the EMAIL_*
// environment variables supply SMTP settings.
var ErrNoEmailConfig = errors.New("email is not configured")

// Subject returns the reminder subject line for a status partition.
func Subject(st report.Status, now time.Time) string {
	n := len(st.Overdue) + len(st.DueSoon) + len(st.Never)
	return fmt.Sprintf("Weekly Assessment Reminder - %d need attention (%s)", n, now.Format("2006-01-02"))
}

type bodyData struct {
	Date     string
	Overdue  []report.Item
	DueSoon  []report.Item
	Total    int
	NOverdue int
	NDueSoon int
}

// BuildBody renders the HTML reminder. Never-assessed topics are reported in
// the overdue section since they have no review date to wait for.
func BuildBody(st report.Status, now time.Time) (string, error) {
	overdue := make([]report.Item, 0, len(st.Overdue)+len(st.Never))
	overdue = append(overdue, st.Overdue...)
	overdue = append(overdue, st.Never...)

	data := bodyData{
		Date:     now.Format("Monday, January 2, 2006"),
		Overdue:  overdue,
		DueSoon:  st.DueSoon,
		Total:    len(overdue) + len(st.DueSoon),
		NOverdue: len(overdue),
		NDueSoon: len(st.DueSoon),
	}

	var sb strings.Builder
	if err := bodyTmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render reminder body: %w", err)
	}
	return sb.String(), nil
}

var bodyTmpl = template.Must(template.New("reminder").Funcs(template.FuncMap{
	"overdueLabel": func(it report.Item) string {
		if it.NeverAssessed {
			return "Never assessed"
		}
		return fmt.Sprintf("%d days overdue", it.DaysOverdue)
	},
	"dueLabel": func(it report.Item) string {
		unit := "days"
		if it.DaysUntil == 1 {
			unit = "day"
		}
		return fmt.Sprintf("Due in %d %s (%s)", it.DaysUntil, unit, it.NextReview)
	},
}).Parse(`<html>
<head>
<style>
body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
.header { background: #2E86AB; color: white; padding: 20px; text-align: center; }
.content { padding: 20px; }
.summary { background-color: #f5f5f5; padding: 15px; border-radius: 8px; margin-bottom: 20px; }
.overdue { background-color: #ffebee; border-left: 4px solid #E74C3C; padding: 15px; margin-bottom: 10px; }
.due-soon { background-color: #fff8e1; border-left: 4px solid #F39C12; padding: 15px; margin-bottom: 10px; }
.title { font-weight: bold; font-size: 1.1em; }
.details { color: #666; font-size: 0.9em; }
</style>
</head>
<body>
<div class="header">
  <h1>Weekly Assessment Tracker Reminder</h1>
  <p>{{ .Date }}</p>
</div>
<div class="content">
  <div class="summary">
    <strong>Summary:</strong> You have {{ .Total }} assessment(s) needing attention
    ({{ .NOverdue }} overdue, {{ .NDueSoon }} due soon)
  </div>
{{ if .Overdue }}
  <div class="section">
    <h2>Overdue Assessments</h2>
    <p>These assessments are past their review date and require immediate attention:</p>
    {{ range .Overdue }}
    <div class="overdue">
      <div class="title">{{ .Title }}</div>
      <div class="details">{{ overdueLabel . }}</div>
    </div>
    {{ end }}
  </div>
{{ end }}
{{ if .DueSoon }}
  <div class="section">
    <h2>Due Soon</h2>
    <p>These assessments are coming up for review:</p>
    {{ range .DueSoon }}
    <div class="due-soon">
      <div class="title">{{ .Title }}</div>
      <div class="details">{{ dueLabel . }}</div>
    </div>
    {{ end }}
  </div>
{{ end }}
  <div class="section">
    <p>To update your assessments:</p>
    <ul>
      <li><strong>Command line:</strong> <code>riskwatch update</code></li>
      <li><strong>Weekly workflow:</strong> <code>riskwatch weekly</code></li>
      <li><strong>Dashboard:</strong> <code>riskwatch dashboard</code></li>
    </ul>
  </div>
</div>
</body>
</html>
`))

// ResolveEmail returns the effective SMTP settings: EMAIL_* environment
// variables win over the config file. Returns ErrNoEmailConfig when neither
// supplies a host.
func ResolveEmail(cfg *config.Email) (config.Email, error) {
	var out config.Email
	if cfg != nil {
		out = *cfg
	}
	if host := os.Getenv("EMAIL_SMTP_SERVER"); host != "" {
		out.SMTPHost = host
	}
	if port := os.Getenv("EMAIL_SMTP_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return config.Email{}, fmt.Errorf("EMAIL_SMTP_PORT: %w", err)
		}
		out.SMTPPort = p
	}
	if user := os.Getenv("EMAIL_USER"); user != "" {
		out.Username = user
		if out.From == "" {
			out.From = user
		}
	}
	if pass := os.Getenv("EMAIL_PASSWORD"); pass != "" {
		out.Password = pass
	}
	if out.SMTPHost == "" {
		return config.Email{}, ErrNoEmailConfig
	}
	if out.SMTPPort == 0 {
		out.SMTPPort = 587
	}
	if len(out.To) == 0 {
		out.To = []string{out.From}
	}
	return out, nil
}

// SendEmail delivers the reminder over SMTP with STARTTLS.
func SendEmail(cfg config.Email, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(cfg.From); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(cfg.To...); err != nil {
		return fmt.Errorf("recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(cfg.SMTPPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}

// Desktop posts a notification through notify-send. Silently unavailable on
// systems without a notification daemon; the caller decides how loud to be.
func Desktop(st report.Status) error {
	if !st.NeedsAttention() {
		return nil
	}
	n := len(st.Overdue) + len(st.Never)
	body := fmt.Sprintf("%d overdue, %d due soon", n, len(st.DueSoon))

	path, err := exec.LookPath("notify-send")
	if err != nil {
		return fmt.Errorf("notify-send not available: %w", err)
	}
	cmd := exec.Command(path, "Assessment Review Reminder", body)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("notify-send: %w", err)
	}
	return nil
}
