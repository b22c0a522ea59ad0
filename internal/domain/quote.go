package domain

import "time"

// QuoteRequestStatus статус запроса котировок.
// Производный: всегда вычисляется из статусов целей, никогда не
// выставляется напрямую
type QuoteRequestStatus string

const (
	QuoteRequestPending   QuoteRequestStatus = "pending"
	QuoteRequestResponded QuoteRequestStatus = "responded"
	QuoteRequestClosed    QuoteRequestStatus = "closed"
)

// QuoteTargetStatus статус ответа одного провайдера
type QuoteTargetStatus string

const (
	QuoteTargetPending  QuoteTargetStatus = "pending"
	QuoteTargetAccepted QuoteTargetStatus = "accepted"
	QuoteTargetDeclined QuoteTargetStatus = "declined"
)

// IsValidQuoteDecision проверяет решение провайдера по котировке
func IsValidQuoteDecision(decision string) bool {
	return decision == string(QuoteTargetAccepted) || decision == string(QuoteTargetDeclined)
}

// QuoteRequest запрос котировок, разосланный нескольким провайдерам
type QuoteRequest struct {
	ID              int64
	UserID          int64
	Category        string
	Suburb          string
	PreferredWindow string
	PetDetails      string
	Note            string
	Status          QuoteRequestStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// QuoteTarget один провайдер внутри запроса котировок с независимым
// жизненным циклом ответа. Покинув pending, цель больше не принимает
// ответов, responded_at выставляется и не сбрасывается
type QuoteTarget struct {
	ID              int64
	QuoteRequestID  int64
	ProviderID      int64
	OwnerUserID     int64
	Status          QuoteTargetStatus
	ResponseMessage string
	CreatedAt       time.Time
	RespondedAt     *time.Time
	Reminder15Sent  bool
	Reminder60Sent  bool
}

// ProjectQuoteRequestStatus вычисляет статус запроса из статусов целей:
// closed  — целей нет либо все отклонили;
// responded — хотя бы одна цель ответила и не все отклонили;
// pending — иначе
func ProjectQuoteRequestStatus(targets []*QuoteTarget) QuoteRequestStatus {
	if len(targets) == 0 {
		return QuoteRequestClosed
	}

	answered := 0
	declined := 0
	for _, target := range targets {
		if target.Status != QuoteTargetPending {
			answered++
		}
		if target.Status == QuoteTargetDeclined {
			declined++
		}
	}

	switch {
	case declined == len(targets):
		return QuoteRequestClosed
	case answered > 0:
		return QuoteRequestResponded
	default:
		return QuoteRequestPending
	}
}

// ReminderTier ступень напоминания о неотвеченной котировке
type ReminderTier string

const (
	ReminderTier15 ReminderTier = "15m"
	ReminderTier60 ReminderTier = "60m"
)

// DueReminder возвращает ступень напоминания, которую пора отправить.
// 60-минутная ступень гасит 15-минутную: если цель провисела час без
// 60-минутного напоминания, отправляется только оно, а оба флага
// считаются отработанными
func (t *QuoteTarget) DueReminder(now time.Time) (ReminderTier, bool) {
	if t.Status != QuoteTargetPending || t.RespondedAt != nil {
		return "", false
	}

	elapsed := int(now.Sub(t.CreatedAt).Minutes())
	if elapsed >= ReminderEscalateMinutes && !t.Reminder60Sent {
		return ReminderTier60, true
	}
	if elapsed >= ReminderFirstMinutes && !t.Reminder15Sent {
		return ReminderTier15, true
	}
	return "", false
}

// ElapsedMinutes возвращает возраст цели в целых минутах
func (t *QuoteTarget) ElapsedMinutes(now time.Time) int {
	elapsed := int(now.Sub(t.CreatedAt).Minutes())
	if elapsed < 0 {
		return 0
	}
	return elapsed
}
