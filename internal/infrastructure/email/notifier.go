package email

import (
	"fmt"

	"github.com/shopspring/decimal"
	gomail "gopkg.in/gomail.v2"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/order"
	"github.com/jhoicas/Farmacia-api/pkg/config"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

var _ order.Notifier = (*SMTPNotifier)(nil)
var _ auth.CodeSender = (*SMTPNotifier)(nil)

// SMTPNotifier envía las notificaciones del motor de órdenes por correo.
// Los errores se devuelven al caller, que decide si los degrada (las
// notificaciones nunca revierten la operación que las dispara).
type SMTPNotifier struct {
	dialer *gomail.Dialer
	from   string
	log    *logger.Logger
}

// NewSMTPNotifier construye el notificador con la configuración SMTP.
func NewSMTPNotifier(cfg config.SMTPConfig, log *logger.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.From,
		log:    log,
	}
}

func (n *SMTPNotifier) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if err := n.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("enviar correo a %s: %w", to, err)
	}
	return nil
}

// OrderConfirmation confirma al comprador que su orden quedó registrada.
func (n *SMTPNotifier) OrderConfirmation(email, name, orderID string, total decimal.Decimal, paymentMethod, address, phone string) error {
	subject := fmt.Sprintf("Orden %s recibida", orderID)
	body := fmt.Sprintf(
		"Hola %s,\n\nTu orden %s fue registrada.\n\nTotal: %s\nMétodo de pago: %s\nDirección de entrega: %s\nTeléfono: %s\n\nGracias por tu compra.",
		name, orderID, total.StringFixed(2), paymentMethod, address, phone,
	)
	return n.send(email, subject, body)
}

// NewOrderAlert avisa a un administrador de una orden nueva.
func (n *SMTPNotifier) NewOrderAlert(adminEmail, adminName, orderID, customerName string) error {
	subject := fmt.Sprintf("Nueva orden %s", orderID)
	body := fmt.Sprintf("Hola %s,\n\nEl cliente %s creó la orden %s.", adminName, customerName, orderID)
	return n.send(adminEmail, subject, body)
}

// StatusUpdate informa al comprador de un cambio de estado.
func (n *SMTPNotifier) StatusUpdate(email, name, orderID, statusDisplay string) error {
	subject := fmt.Sprintf("Orden %s: %s", orderID, statusDisplay)
	body := fmt.Sprintf("Hola %s,\n\nTu orden %s cambió de estado: %s.", name, orderID, statusDisplay)
	return n.send(email, subject, body)
}

// CancellationConfirmation confirma al comprador la cancelación.
func (n *SMTPNotifier) CancellationConfirmation(email, name, orderID, reason string) error {
	subject := fmt.Sprintf("Orden %s cancelada", orderID)
	body := fmt.Sprintf("Hola %s,\n\nTu orden %s fue cancelada.\nMotivo: %s\n\nEl stock fue restaurado.", name, orderID, reason)
	return n.send(email, subject, body)
}

// CancellationAlert avisa a un administrador de una cancelación.
func (n *SMTPNotifier) CancellationAlert(adminEmail, adminName, orderID, customerName, reason string) error {
	subject := fmt.Sprintf("Orden %s cancelada por el cliente", orderID)
	body := fmt.Sprintf("Hola %s,\n\nEl cliente %s canceló la orden %s.\nMotivo: %s", adminName, customerName, orderID, reason)
	return n.send(adminEmail, subject, body)
}

// VerificationCode envía el código de verificación de registro.
func (n *SMTPNotifier) VerificationCode(toEmail, fullName, code string) error {
	subject := "Código de verificación"
	body := fmt.Sprintf("Hola %s,\n\nTu código de verificación es: %s\n\nVence en 15 minutos.", fullName, code)
	return n.send(toEmail, subject, body)
}
