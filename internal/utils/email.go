package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"github.com/wneessen/go-mail"

	"swadisht_back_end/internal/models"
)

func SendConfirmationEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From("commandes@swadishtsweets.in"); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("facture_swadisht.pdf", bytes.NewReader(pdfAttachment))
	}

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

// GenerateOrderConfirmationHTML génère le HTML de confirmation de commande
func GenerateOrderConfirmationHTML(order models.Order, currencySymbol string) string {
	itemsHTML := ""
	for _, item := range order.Items {
		itemsHTML += fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>%s%.2f</td>
				<td>%s%.2f</td>
			</tr>`, item.Name, item.Quantity, currencySymbol, item.Price,
			currencySymbol, item.Price*float64(item.Quantity))
	}

	codLine := ""
	if order.CODFee > 0 {
		codLine = fmt.Sprintf(`<p>Frais paiement à la livraison : %s%.2f</p>`, currencySymbol, order.CODFee)
	}
	discountLine := ""
	if order.Discount > 0 {
		discountLine = fmt.Sprintf(`<p>Remise (%s) : −%s%.2f</p>`, order.CouponCode, currencySymbol, order.Discount)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>🪔 Merci pour votre commande chez Swadisht Sweets !</h2>
	<p>Bonjour %s,</p>
	<p>Votre commande <strong>%s</strong> a bien été enregistrée.</p>
	<table border="1" cellpadding="6" cellspacing="0">
		<tr><th>Article</th><th>Qté</th><th>Prix</th><th>Total</th></tr>
		%s
	</table>
	<p>Sous-total : %s%.2f</p>
	<p>Taxe : %s%.2f</p>
	<p>Livraison : %s%.2f</p>
	%s%s
	<h3>Total : %s%.2f</h3>
	<p>Livraison à : %s, %s, %s — %s %s, %s</p>
	<p>À très vite,<br/>L'équipe Swadisht Sweets</p>
</body>
</html>`,
		order.CustomerName,
		order.OrderNumber,
		itemsHTML,
		currencySymbol, order.Subtotal,
		currencySymbol, order.Tax,
		currencySymbol, order.DeliveryFee,
		codLine, discountLine,
		currencySymbol, order.Total,
		order.Address.Plot, order.Address.Street, order.Address.Landmark,
		order.Address.City, order.Address.Pincode, order.Address.State,
	)
}
