package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vitalfit/backend/pkg/types"
)

func TestPluralDays(t *testing.T) {
	require.Equal(t, "1 día", pluralDays(1))
	require.Equal(t, "3 días", pluralDays(3))
	require.Equal(t, "7 días", pluralDays(7))
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "05/03/2025", formatDate(time.Date(2025, 3, 5, 14, 30, 0, 0, time.UTC)))
}

func TestFormatAmount(t *testing.T) {
	require.Equal(t, "1500,50", formatAmount(150050))
	require.Equal(t, "0,99", formatAmount(99))
	require.Equal(t, "20,00", formatAmount(2000))
}

func TestSubscriptionExpiring(t *testing.T) {
	tpl := SubscriptionExpiring(7)
	require.Equal(t, types.NotificationTypeSubscription, tpl.Type)
	require.Contains(t, tpl.Message, "vence en 7 días")
	require.NotNil(t, tpl.ActionURL)
	require.Equal(t, "/member/subscription", *tpl.ActionURL)

	tpl = SubscriptionExpiring(1)
	require.Contains(t, tpl.Message, "vence en 1 día")
}

func TestSubscriptionExpired(t *testing.T) {
	tpl := SubscriptionExpired()
	require.Equal(t, types.NotificationTypeSubscription, tpl.Type)
	require.Contains(t, tpl.Message, "venció")
}

func TestSubscriptionRenewed(t *testing.T) {
	tpl := SubscriptionRenewed(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	require.Equal(t, types.NotificationTypeSubscription, tpl.Type)
	require.Contains(t, tpl.Message, "31/12/2025")
}

func TestRoutineAssigned(t *testing.T) {
	tpl := RoutineAssigned("Hipertrofia 3x")
	require.Equal(t, types.NotificationTypeRoutine, tpl.Type)
	require.Contains(t, tpl.Message, "Hipertrofia 3x")
	require.NotNil(t, tpl.ActionURL)
	require.Equal(t, "/member/routine", *tpl.ActionURL)
}

func TestInactivityReminder(t *testing.T) {
	tpl := InactivityReminder(6)
	require.Equal(t, types.NotificationTypeRoutine, tpl.Type)
	require.Contains(t, tpl.Message, "Hace 6 días")
}

func TestPaymentReceived(t *testing.T) {
	tpl := PaymentReceived(250000, "ARS")
	require.Equal(t, types.NotificationTypePayment, tpl.Type)
	require.Contains(t, tpl.Message, "ARS 2500,00")
}

func TestNewBenefit(t *testing.T) {
	tpl := NewBenefit("Pase libre a pileta")
	require.Equal(t, types.NotificationTypeBenefit, tpl.Type)
	require.Contains(t, tpl.Message, "Pase libre a pileta")
}

func TestWelcome(t *testing.T) {
	tpl := Welcome("Ana")
	require.Equal(t, types.NotificationTypeInfo, tpl.Type)
	require.Contains(t, tpl.Message, "¡Hola Ana!")

	// anonymous greeting when the member name is unknown
	tpl = Welcome("")
	require.NotContains(t, tpl.Message, "Hola")
	require.Contains(t, tpl.Message, "ya está activa")
}

func TestSystemMessage(t *testing.T) {
	tpl := SystemMessage("Mantenimiento programado", "El gimnasio cierra el sábado.")
	require.Equal(t, types.NotificationTypeSystem, tpl.Type)
	require.Equal(t, "Mantenimiento programado", tpl.Title)
	require.Nil(t, tpl.ActionURL)
}
