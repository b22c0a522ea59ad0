package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func target(status QuoteTargetStatus) *QuoteTarget {
	return &QuoteTarget{Status: status}
}

func TestProjectQuoteRequestStatus(t *testing.T) {
	tests := []struct {
		name    string
		targets []*QuoteTarget
		want    QuoteRequestStatus
	}{
		{
			name:    "no targets is closed",
			targets: nil,
			want:    QuoteRequestClosed,
		},
		{
			name:    "all pending stays pending",
			targets: []*QuoteTarget{target(QuoteTargetPending), target(QuoteTargetPending)},
			want:    QuoteRequestPending,
		},
		{
			name:    "all declined is closed",
			targets: []*QuoteTarget{target(QuoteTargetDeclined), target(QuoteTargetDeclined)},
			want:    QuoteRequestClosed,
		},
		{
			name: "one declined one accepted one pending is responded",
			targets: []*QuoteTarget{
				target(QuoteTargetDeclined),
				target(QuoteTargetAccepted),
				target(QuoteTargetPending),
			},
			want: QuoteRequestResponded,
		},
		{
			name:    "single accepted is responded",
			targets: []*QuoteTarget{target(QuoteTargetAccepted)},
			want:    QuoteRequestResponded,
		},
		{
			name:    "declined while others pending is responded",
			targets: []*QuoteTarget{target(QuoteTargetDeclined), target(QuoteTargetPending)},
			want:    QuoteRequestResponded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProjectQuoteRequestStatus(tt.targets))
		})
	}
}

func TestQuoteTarget_DueReminder(t *testing.T) {
	createdAt := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		target   QuoteTarget
		now      time.Time
		wantTier ReminderTier
		wantDue  bool
	}{
		{
			name:    "fresh target has nothing due",
			target:  QuoteTarget{Status: QuoteTargetPending, CreatedAt: createdAt},
			now:     createdAt.Add(10 * time.Minute),
			wantDue: false,
		},
		{
			name:     "15 minutes elapsed fires first tier",
			target:   QuoteTarget{Status: QuoteTargetPending, CreatedAt: createdAt},
			now:      createdAt.Add(15 * time.Minute),
			wantTier: ReminderTier15,
			wantDue:  true,
		},
		{
			name:    "first tier already sent fires nothing before the hour",
			target:  QuoteTarget{Status: QuoteTargetPending, CreatedAt: createdAt, Reminder15Sent: true},
			now:     createdAt.Add(30 * time.Minute),
			wantDue: false,
		},
		{
			name:     "60 minutes elapsed escalates",
			target:   QuoteTarget{Status: QuoteTargetPending, CreatedAt: createdAt, Reminder15Sent: true},
			now:      createdAt.Add(60 * time.Minute),
			wantTier: ReminderTier60,
			wantDue:  true,
		},
		{
			name:     "aged target without first tier fires only the escalation",
			target:   QuoteTarget{Status: QuoteTargetPending, CreatedAt: createdAt},
			now:      createdAt.Add(90 * time.Minute),
			wantTier: ReminderTier60,
			wantDue:  true,
		},
		{
			name: "both tiers sent fires nothing",
			target: QuoteTarget{
				Status: QuoteTargetPending, CreatedAt: createdAt,
				Reminder15Sent: true, Reminder60Sent: true,
			},
			now:     createdAt.Add(3 * time.Hour),
			wantDue: false,
		},
		{
			name:    "responded target is skipped",
			target:  QuoteTarget{Status: QuoteTargetAccepted, CreatedAt: createdAt},
			now:     createdAt.Add(2 * time.Hour),
			wantDue: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier, due := tt.target.DueReminder(tt.now)
			assert.Equal(t, tt.wantDue, due)
			if tt.wantDue {
				assert.Equal(t, tt.wantTier, tier)
			}
		})
	}
}

func TestQuoteTarget_ElapsedMinutes(t *testing.T) {
	createdAt := time.Date(2025, 10, 15, 10, 0, 0, 0, time.UTC)
	target := QuoteTarget{CreatedAt: createdAt}

	assert.Equal(t, 0, target.ElapsedMinutes(createdAt))
	assert.Equal(t, 17, target.ElapsedMinutes(createdAt.Add(17*time.Minute+30*time.Second)))
	// Часы, расходящиеся назад, не дают отрицательного возраста
	assert.Equal(t, 0, target.ElapsedMinutes(createdAt.Add(-5*time.Minute)))
}

func TestIsValidQuoteDecision(t *testing.T) {
	assert.True(t, IsValidQuoteDecision("accepted"))
	assert.True(t, IsValidQuoteDecision("declined"))
	assert.False(t, IsValidQuoteDecision("pending"))
	assert.False(t, IsValidQuoteDecision(""))
	assert.False(t, IsValidQuoteDecision("maybe"))
}
