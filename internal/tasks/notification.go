package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hibiken/asynq"

	"greendrake/storefront/internal/models"
)

// HandleNotificationSendTask delivers one confirmation notice: an email and a
// WhatsApp message. Returning an error reports the attempt as failed and
// asynq schedules the retry; after the attempt budget is exhausted the job
// moves to the archived (dead) set.
func (p *TaskProcessor) HandleNotificationSendTask(ctx context.Context, t *asynq.Task) error {
	var job models.NotificationJob
	if err := json.Unmarshal(t.Payload(), &job); err != nil {
		// A malformed payload never becomes deliverable; don't burn retries on it.
		return fmt.Errorf("failed to unmarshal notification job: %v: %w", err, asynq.SkipRetry)
	}

	log.Printf("Processing notification job: submission=%s kind=%s to=%s",
		job.SubmissionID.String(), job.Kind, job.CustomerEmail)

	subject, rawMessage := p.composeConfirmationEmail(job)
	if err := p.emailSender.Send(ctx, []string{job.CustomerEmail}, subject, rawMessage); err != nil {
		return fmt.Errorf("confirmation email failed: %w", err)
	}

	if job.CustomerPhone != "" {
		whatsappMsg := fmt.Sprintf("Hi %s, your %s %s has been received. We'll be in touch shortly.",
			job.CustomerName, strings.ToLower(string(job.Kind)), job.SubmissionID.String())
		if err := p.whatsappSender.Send(ctx, job.CustomerPhone, whatsappMsg); err != nil {
			return fmt.Errorf("whatsapp notification failed: %w", err)
		}
	}

	log.Printf("Notification sent successfully: submission=%s", job.SubmissionID.String())
	return nil
}

// composeConfirmationEmail builds the full raw message, headers included.
func (p *TaskProcessor) composeConfirmationEmail(job models.NotificationJob) (string, []byte) {
	kind := string(job.Kind)
	subject := fmt.Sprintf("%s Confirmation - %s", kind, job.SubmissionID.String())

	from := p.cfg.SmtpFromAddress
	if from == "" {
		from = "noreply@storefront.example.com"
	}

	bodyVerb := "enquiry"
	if job.Kind == models.KindOrder {
		bodyVerb = "order"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("To: %s\r\n", job.CustomerEmail))
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("Date: " + time.Now().Format(time.RFC1123Z) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(fmt.Sprintf("Hi %s,\r\n\r\n", job.CustomerName))
	sb.WriteString(fmt.Sprintf("Thank you for your %s. Its reference number is %s.\r\n", bodyVerb, job.SubmissionID.String()))
	sb.WriteString(fmt.Sprintf("\r\n%s\r\n", p.cfg.AppName))

	return subject, []byte(sb.String())
}
