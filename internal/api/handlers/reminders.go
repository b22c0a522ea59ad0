package handlers

import (
	"fmt"

	"github.com/pawmates/PSV-BookingService/internal/domain"
	"github.com/pawmates/PSV-BookingService/internal/integrations/notifier"
	quoteModels "github.com/pawmates/PSV-BookingService/internal/service/quotes/models"
)

// ReminderNotifications конвертирует созревшие напоминания в уведомления
// владельцам провайдеров. Используется всеми путями диспетчеризации:
// явным эндпоинтом и оппортунистическими вызовами из читающих хендлеров
func ReminderNotifications(dispatched []quoteModels.ReminderDescriptor) []notifier.Notification {
	notifications := make([]notifier.Notification, 0, len(dispatched))
	for _, reminder := range dispatched {
		title := "Запрос котировки ждет ответа"
		if reminder.Tier == domain.ReminderTier60 {
			title = "Запрос котировки всё ещё без ответа"
		}
		notifications = append(notifications, notifier.Notification{
			RecipientUserID: reminder.OwnerUserID,
			Title:           title,
			Body: fmt.Sprintf("Запрос #%d ожидает ответа уже %d мин.",
				reminder.QuoteRequestID, reminder.ElapsedMinutes),
			Category: notifier.CategoryReminder,
			DeepLink: fmt.Sprintf("app://quotes/%d", reminder.QuoteRequestID),
		})
	}
	return notifications
}
