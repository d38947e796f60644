package service

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pageza/nutriplan/backend/config"
	"github.com/pageza/nutriplan/backend/internal/models"
)

type EmailService struct {
	smtpHost     string
	smtpPort     string
	smtpUsername string
	smtpPassword string
	fromEmail    string
	fromName     string
}

var _ IEmailService = (*EmailService)(nil)

func NewEmailService(cfg *config.Config) *EmailService {
	service := &EmailService{
		smtpHost:     cfg.SMTPHost,
		smtpPort:     cfg.SMTPPort,
		smtpUsername: cfg.SMTPUsername,
		smtpPassword: cfg.SMTPPassword,
		fromEmail:    cfg.EmailFrom,
		fromName:     "NutriPlan",
	}

	if !service.configured() {
		log.Printf("SMTP not configured, review notifications will be logged")
	}
	return service
}

func (s *EmailService) configured() bool {
	return s.smtpHost != "" && s.smtpPort != ""
}

func (s *EmailService) SendEmail(to, subject, body string) error {
	if !s.configured() {
		log.Printf("SMTP not configured, logging email to=%s subject=%q", to, subject)
		return nil
	}

	auth := smtp.PlainAuth("", s.smtpUsername, s.smtpPassword, s.smtpHost)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"From: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/html; charset=UTF-8\r\n"+
		"\r\n"+
		"%s\r\n", to, from, subject, body))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	if err := smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendPlanReviewed tells the plan owner about the professional's decision
func (s *EmailService) SendPlanReviewed(plan *models.DietPlan, owner, reviewer *models.Account) error {
	subject := fmt.Sprintf("[NutriPlan] Seu plano foi %s", statusLabel(plan.Status))
	return s.SendEmail(owner.Email, subject, buildPlanReviewedBody(plan, owner, reviewer))
}

func statusLabel(status models.PlanStatus) string {
	switch status {
	case models.PlanApproved:
		return "aprovado"
	case models.PlanRejected:
		return "rejeitado"
	default:
		return "atualizado"
	}
}

func buildPlanReviewedBody(plan *models.DietPlan, owner, reviewer *models.Account) string {
	caser := cases.Title(language.BrazilianPortuguese)

	reviewerName := "Nutricionista"
	if reviewer != nil && reviewer.Name != "" {
		reviewerName = html.EscapeString(caser.String(reviewer.Name))
	}

	feedback := "<p>Nenhum comentário adicional.</p>"
	if strings.TrimSpace(plan.NutritionistFeedback) != "" {
		feedback = fmt.Sprintf(`<div style="background-color: #f5f5f5; padding: 15px; border-radius: 5px;">%s</div>`,
			strings.ReplaceAll(html.EscapeString(plan.NutritionistFeedback), "\n", "<br>"))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<title>Plano %s - NutriPlan</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<h2 style="color: #4CAF50;">Olá %s!</h2>
	<p>Seu plano alimentar para o objetivo <strong>%s</strong> foi <strong>%s</strong> por %s.</p>

	<h4>Comentários do nutricionista:</h4>
	%s

	<div style="margin-top: 30px; padding: 15px; background-color: #e9ecef; border-radius: 5px;">
		<p><strong>Plano:</strong> %s</p>
		<p style="font-size: 12px; color: #666;">Esta é uma notificação automática do NutriPlan.</p>
	</div>
</body>
</html>
	`,
		caser.String(statusLabel(plan.Status)),
		html.EscapeString(caser.String(owner.Name)),
		html.EscapeString(plan.Goal),
		statusLabel(plan.Status),
		reviewerName,
		feedback,
		plan.ID,
	)
}
