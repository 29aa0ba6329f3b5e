package utils

import (
	"fmt"
	"log"
	"os"

	"sarap_local_back_end/internal/models"

	"github.com/wneessen/go-mail"
)

// SendOrderStatusEmail prévient le client par email quand le vendeur fait
// avancer sa commande. L'échec d'envoi est loggé mais ne bloque jamais la requête.
func SendOrderStatusEmail(order models.Order, userEmail, newStatus string) error {
	subject := statusEmailSubject(newStatus)
	html := statusEmailHTML(order, newStatus)

	if err := sendEmail(userEmail, subject, html); err != nil {
		log.Printf("❌ Erreur envoi email statut: %v", err)
		return err
	}

	log.Printf("📧 Email de statut envoyé: %s → %s", newStatus, userEmail)
	return nil
}

func sendEmail(to, subject, htmlBody string) error {
	msg := mail.NewMsg()

	if err := msg.From(getenvDefault("SMTP_FROM", "noreply@saraplocal.ph")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSend(msg)
}

func statusEmailSubject(status string) string {
	switch status {
	case models.OrderStatusConfirmed:
		return "✅ Commande confirmée - Sarap Local"
	case models.OrderStatusPreparing:
		return "👨‍🍳 Votre commande est en préparation - Sarap Local"
	case models.OrderStatusReady:
		return "🛵 Votre commande est prête - Sarap Local"
	case models.OrderStatusCompleted:
		return "🎉 Commande livrée - Sarap Local"
	case models.OrderStatusCancelled:
		return "❌ Commande annulée - Sarap Local"
	default:
		return "📋 Mise à jour de votre commande - Sarap Local"
	}
}

func statusEmailHTML(order models.Order, status string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: -apple-system, 'Segoe UI', Roboto, Arial, sans-serif; background-color: #f5f5f5; padding: 24px;">
    <div style="max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; padding: 32px;">
        <h1 style="margin: 0 0 8px 0; color: #d35400;">Sarap Local</h1>
        <p style="color: #333333; font-size: 16px;">Le statut de votre commande a changé.</p>
        <table style="width: 100%%; border-collapse: collapse; background-color: #f8f9fa; border-radius: 8px;">
            <tr>
                <td style="padding: 12px; color: #666666;">Numéro de commande</td>
                <td style="padding: 12px; text-align: right; font-weight: 600;">%s</td>
            </tr>
            <tr>
                <td style="padding: 12px; color: #666666;">Montant total</td>
                <td style="padding: 12px; text-align: right; font-weight: 600;">%.2f ₱</td>
            </tr>
            <tr>
                <td style="padding: 12px; color: #666666;">Nouveau statut</td>
                <td style="padding: 12px; text-align: right; font-weight: 600; text-transform: uppercase;">%s</td>
            </tr>
        </table>
        <p style="color: #999999; font-size: 12px; margin-top: 24px;">
            Cet email a été envoyé automatiquement, merci de ne pas y répondre.
        </p>
    </div>
</body>
</html>`, order.OrderNumber, order.TotalAmount, status)
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
