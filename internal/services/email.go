package services

import (
	"context"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"

	"github.com/wneessen/go-mail"

	"plantopia_back_end/internal/config"
	"plantopia_back_end/internal/models"
)

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, order models.Order) error
}

type SMTPMailer struct {
	cfg config.SMTPConfig
}

func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, to string, order models.Order) error {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject("Your Plantopia order " + order.ID.Hex())
	msg.SetBodyString(mail.TypeTextHTML, OrderConfirmationHTML(order))

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthLogin),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return err
	}

	log.Println("📤 Envoi de l'e-mail à", to)
	return client.DialAndSendWithContext(ctx, msg)
}

// OrderConfirmationHTML génère le HTML de confirmation de commande
func OrderConfirmationHTML(order models.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		fmt.Fprintf(&rows, `
			<tr>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%s</td>
				<td style="padding: 8px; border: 1px solid #ddd;">%.2f</td>
			</tr>`, html.EscapeString(item.Name()), strconv.FormatFloat(item.Quantity(), 'f', -1, 64), item.Price())
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="UTF-8">
	<title>Order confirmation</title>
</head>
<body style="font-family: Arial, sans-serif; background-color: #f4f8f4; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #2f6b3a;">Thank you for your order</h2>
		<p>Order <strong>%s</strong> has been received and is <strong>%s</strong>.</p>
		<table style="width: 100%%; border-collapse: collapse; margin: 20px 0;">
			<thead>
				<tr style="background-color: #e8f2e8;">
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Product</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Quantity</th>
					<th style="padding: 8px; text-align: left; border: 1px solid #ddd;">Price</th>
				</tr>
			</thead>
			<tbody>%s
			</tbody>
		</table>
		<p style="font-weight: bold;">Total: %.2f</p>
		<p>Payment method: %s</p>
		<p style="margin-top: 30px; color: #555;">The Plantopia team</p>
	</div>
</body>
</html>`, order.ID.Hex(), order.Status, rows.String(), order.OrderTotal(), html.EscapeString(order.PaymentMethod))
}
