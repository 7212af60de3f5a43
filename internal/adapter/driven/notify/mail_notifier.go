// Package notify envia os e-mails de relatório e de lembrete via SMTP.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/diillson/maternity-reports-go/internal/domain/entity"
	"github.com/diillson/maternity-reports-go/internal/domain/repository"
	"gopkg.in/gomail.v2"
)

// Sender é satisfeito por *gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier implementa repository.Notifier com gomail.
type MailNotifier struct {
	sender       Sender
	from         string
	fromName     string
	organization string
	recipients   []string
	loc          *time.Location
}

var _ repository.Notifier = (*MailNotifier)(nil)

// NewMailNotifier cria o notificador. recipients recebem cópia de todas as mensagens.
func NewMailNotifier(sender Sender, from, fromName, organization string, recipients []string, loc *time.Location) *MailNotifier {
	if loc == nil {
		loc = time.UTC
	}
	return &MailNotifier{
		sender:       sender,
		from:         from,
		fromName:     fromName,
		organization: organization,
		recipients:   recipients,
		loc:          loc,
	}
}

// NewSMTPSender cria o dialer gomail.
func NewSMTPSender(host string, port int, username, password string) *gomail.Dialer {
	return gomail.NewDialer(host, port, username, password)
}

var reportTemplate = template.Must(template.New("report").Parse(`<p>Bonjour,</p>
<p>Le rapport <strong>{{.Title}}</strong> de <strong>{{.Period}}</strong>{{if .CenterName}} pour <strong>{{.CenterName}}</strong>{{end}} est disponible.</p>
<p><a href="{{.URL}}"
 style="display:inline-block;padding:10px 20px;text-decoration:none;border-radius:5px;background-color:#007bff;color:#fff;">Télécharger le rapport</a></p>
<p style="color:#888;font-size:12px;">Référence {{.ReportID}}{{if .Organization}} - {{.Organization}}{{end}}</p>`))

var reminderTemplate = template.Must(template.New("reminder").Parse(`<p>Bonjour,</p>
<p>{{len .Times}} consultation(s) prénatale(s) prévue(s) aujourd'hui pour <strong>{{.CenterName}}</strong> n'ont pas encore été réalisées :</p>
<ul>{{range .Times}}<li>{{.}}</li>{{end}}</ul>
{{if .Organization}}<p style="color:#888;font-size:12px;">{{.Organization}}</p>{{end}}`))

func (n *MailNotifier) NotifyReport(_ context.Context, center *entity.Center, report entity.Report) error {
	var centerEmail, centerName string
	if center != nil {
		centerEmail, centerName = center.Email, center.Name
	}
	to := n.recipientsWith(centerEmail)
	if len(to) == 0 {
		return nil
	}

	period := fmt.Sprintf("%s %d", report.Month, report.Year)
	body, err := render(reportTemplate, map[string]interface{}{
		"Title":        report.Type.Title(),
		"Period":       period,
		"CenterName":   centerName,
		"URL":          report.DocumentURL,
		"ReportID":     report.ID,
		"Organization": n.organization,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Rapport disponible : %s - %s", report.Type.Title(), period)
	return n.send(to, subject, body)
}

func (n *MailNotifier) NotifyPendingConsultations(_ context.Context, center entity.Center, pending []entity.Consultation) error {
	to := n.recipientsWith(center.Email)
	if len(to) == 0 || len(pending) == 0 {
		return nil
	}

	times := make([]string, 0, len(pending))
	for _, c := range pending {
		times = append(times, c.ScheduledAt.In(n.loc).Format("15:04"))
	}
	name := center.Name
	if name == "" {
		name = center.ID
	}

	body, err := render(reminderTemplate, map[string]interface{}{
		"CenterName":   name,
		"Times":        times,
		"Organization": n.organization,
	})
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Rappel : %d consultation(s) en attente aujourd'hui", len(pending))
	return n.send(to, subject, body)
}

func (n *MailNotifier) send(to []string, subject, body string) error {
	msg := gomail.NewMessage()
	if n.fromName != "" {
		msg.SetAddressHeader("From", n.from, n.fromName)
	} else {
		msg.SetHeader("From", n.from)
	}
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := n.sender.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending %q to %s: %w", subject, strings.Join(to, ", "), err)
	}
	return nil
}

// recipientsWith devolve o e-mail do centro seguido dos destinatários fixos, sem repetição.
func (n *MailNotifier) recipientsWith(centerEmail string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, addr := range append([]string{centerEmail}, n.recipients...) {
		addr = strings.TrimSpace(addr)
		key := strings.ToLower(addr)
		if addr == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, addr)
	}
	return out
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s e-mail: %w", t.Name(), err)
	}
	return buf.String(), nil
}
