package model

import "time"

const (
	LotteryDraft     = "draft"
	LotteryPending   = "pending"
	LotteryActive    = "active"
	LotteryEnded     = "ended"
	LotteryDrawn     = "drawn"
	LotteryCancelled = "cancelled"
)

type Lottery struct {
	Id          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	PrizeName   string     `json:"prize_name"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     time.Time  `json:"end_date"`
	Status      string     `json:"status"`
	Winner      *Driver    `json:"winner,omitempty"`
	DrawnAt     *time.Time `json:"drawn_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"-"`
}

// IsTerminal reports whether no further status transition is allowed.
func (l *Lottery) IsTerminal() bool {
	return l.Status == LotteryEnded || l.Status == LotteryDrawn || l.Status == LotteryCancelled
}
