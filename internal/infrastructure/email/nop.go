package email

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Farmacia-api/internal/application/auth"
	"github.com/jhoicas/Farmacia-api/internal/application/order"
	"github.com/jhoicas/Farmacia-api/pkg/logger"
)

var _ order.Notifier = (*NopNotifier)(nil)
var _ auth.CodeSender = (*NopNotifier)(nil)

// NopNotifier registra en el log en lugar de enviar correos. Se usa cuando
// no hay SMTP configurado (development, tests de integración).
type NopNotifier struct {
	log *logger.Logger
}

// NewNopNotifier construye el notificador nulo.
func NewNopNotifier(log *logger.Logger) *NopNotifier {
	return &NopNotifier{log: log}
}

func (n *NopNotifier) OrderConfirmation(email, name, orderID string, total decimal.Decimal, paymentMethod, address, phone string) error {
	n.log.Debug().Str("email", email).Str("order_id", orderID).Msg("notificación omitida: confirmación de orden")
	return nil
}

func (n *NopNotifier) NewOrderAlert(adminEmail, adminName, orderID, customerName string) error {
	n.log.Debug().Str("email", adminEmail).Str("order_id", orderID).Msg("notificación omitida: alerta de orden nueva")
	return nil
}

func (n *NopNotifier) StatusUpdate(email, name, orderID, statusDisplay string) error {
	n.log.Debug().Str("email", email).Str("order_id", orderID).Str("status", statusDisplay).Msg("notificación omitida: cambio de estado")
	return nil
}

func (n *NopNotifier) CancellationConfirmation(email, name, orderID, reason string) error {
	n.log.Debug().Str("email", email).Str("order_id", orderID).Msg("notificación omitida: confirmación de cancelación")
	return nil
}

func (n *NopNotifier) CancellationAlert(adminEmail, adminName, orderID, customerName, reason string) error {
	n.log.Debug().Str("email", adminEmail).Str("order_id", orderID).Msg("notificación omitida: alerta de cancelación")
	return nil
}

func (n *NopNotifier) VerificationCode(toEmail, fullName, code string) error {
	n.log.Info().Str("email", toEmail).Str("code", code).Msg("correo omitido: código de verificación")
	return nil
}
