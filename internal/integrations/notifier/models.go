package notifier

// Notification уведомление для внешнего канала доставки.
// Движок только формирует описание: получатель, заголовок, текст,
// категория и deep link; доставкой занимается Notifier
type Notification struct {
	RecipientUserID int64  `json:"recipient_user_id"`
	Title           string `json:"title"`
	Body            string `json:"body"`
	Category        string `json:"category"`
	DeepLink        string `json:"deep_link"`
}

// Категории уведомлений
const (
	CategoryBooking  = "booking"
	CategoryQuote    = "quote"
	CategoryReminder = "quote_reminder"
)
