package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/vitalfit/backend/pkg/types"
)

// Template is a rendered notification: the pure output of one of the event
// template functions below, ready to be dispatched.
type Template struct {
	Title     string
	Message   string
	Type      types.NotificationType
	ActionURL *string
}

func actionURL(path string) *string { return &path }

// pluralDays renders the es day count ("1 día", "3 días").
func pluralDays(days int) string {
	if days == 1 {
		return "1 día"
	}
	return fmt.Sprintf("%d días", days)
}

// formatDate renders dates in the portal's fixed dd/mm/yyyy convention.
func formatDate(t time.Time) string {
	return t.Format("02/01/2006")
}

// formatAmount renders a minor-unit amount with comma decimal separator
// ("1500,50"), matching the portal's es locale.
func formatAmount(amountCents int64) string {
	s := fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100)
	return strings.ReplaceAll(s, ".", ",")
}

func SubscriptionExpiring(days int) Template {
	return Template{
		Title:     "Tu suscripción está por vencer",
		Message:   fmt.Sprintf("Tu suscripción vence en %s. Renovala para no perder acceso al gimnasio.", pluralDays(days)),
		Type:      types.NotificationTypeSubscription,
		ActionURL: actionURL("/member/subscription"),
	}
}

func SubscriptionExpired() Template {
	return Template{
		Title:     "Suscripción vencida",
		Message:   "Tu suscripción venció. Renovala para seguir entrenando.",
		Type:      types.NotificationTypeSubscription,
		ActionURL: actionURL("/member/subscription"),
	}
}

func SubscriptionRenewed(until time.Time) Template {
	return Template{
		Title:     "Suscripción renovada",
		Message:   fmt.Sprintf("Tu suscripción fue renovada hasta el %s. ¡Gracias por seguir con nosotros!", formatDate(until)),
		Type:      types.NotificationTypeSubscription,
		ActionURL: actionURL("/member/subscription"),
	}
}

func RoutineAssigned(planName string) Template {
	return Template{
		Title:     "Nueva rutina asignada",
		Message:   fmt.Sprintf("Tu entrenador te asignó la rutina «%s». Ya podés verla en tu plan.", planName),
		Type:      types.NotificationTypeRoutine,
		ActionURL: actionURL("/member/routine"),
	}
}

func InactivityReminder(days int) Template {
	return Template{
		Title:     "¡Te extrañamos en el gimnasio!",
		Message:   fmt.Sprintf("Hace %s que no registrás un entrenamiento. Tu rutina te está esperando.", pluralDays(days)),
		Type:      types.NotificationTypeRoutine,
		ActionURL: actionURL("/member/routine"),
	}
}

func PaymentReceived(amountCents int64, currency string) Template {
	return Template{
		Title:     "Pago recibido",
		Message:   fmt.Sprintf("Recibimos tu pago de %s %s. ¡Gracias!", currency, formatAmount(amountCents)),
		Type:      types.NotificationTypePayment,
		ActionURL: actionURL("/member/payments"),
	}
}

func NewBenefit(benefitName string) Template {
	return Template{
		Title:     "Nuevo beneficio disponible",
		Message:   fmt.Sprintf("Tenés un nuevo beneficio: %s. Consultalo en la app.", benefitName),
		Type:      types.NotificationTypeBenefit,
		ActionURL: actionURL("/member/benefits"),
	}
}

func Welcome(memberName string) Template {
	msg := "Tu suscripción ya está activa. Agendá tu primera clase cuando quieras."
	if memberName != "" {
		msg = fmt.Sprintf("¡Hola %s! %s", memberName, msg)
	}
	return Template{
		Title:   "¡Bienvenido al club!",
		Message: msg,
		Type:    types.NotificationTypeInfo,
	}
}

func SystemMessage(title, message string) Template {
	return Template{
		Title:   title,
		Message: message,
		Type:    types.NotificationTypeSystem,
	}
}
