package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TradeDirectionBuy  = "BUY"
	TradeDirectionSell = "SELL"

	TradeStatusOpen   = "OPEN"
	TradeStatusClosed = "CLOSED"
)

// Trade is a single journal entry owned by one user.
type Trade struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;not null;index" json:"user_id" validate:"required"`

	CurrencyPair string `gorm:"type:varchar(20);not null;index" json:"currency_pair" validate:"required"`
	Direction    string `gorm:"type:varchar(10);not null" json:"direction" validate:"oneof=BUY SELL"`
	Status       string `gorm:"type:varchar(10);not null;index" json:"status" validate:"oneof=OPEN CLOSED"`

	EntryPrice decimal.Decimal  `gorm:"type:numeric(20,10);not null" json:"entry_price"`
	ExitPrice  *decimal.Decimal `gorm:"type:numeric(20,10)" json:"exit_price,omitempty"`
	LotSize    decimal.Decimal  `gorm:"type:numeric(20,6);not null" json:"lot_size"`
	StopLoss   *decimal.Decimal `gorm:"type:numeric(20,10)" json:"stop_loss,omitempty"`
	TakeProfit *decimal.Decimal `gorm:"type:numeric(20,10)" json:"take_profit,omitempty"`
	Pips       *decimal.Decimal `gorm:"type:numeric(20,2)" json:"pips,omitempty"`
	ProfitLoss *decimal.Decimal `gorm:"type:numeric(20,2)" json:"profit_loss,omitempty"`

	Strategy string         `gorm:"type:varchar(100)" json:"strategy,omitempty"`
	Notes    string         `gorm:"type:text" json:"notes,omitempty"`
	Tags     datatypes.JSON `json:"tags"`

	TradeDate time.Time `gorm:"not null;index" json:"trade_date" validate:"required"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Trade) TableName() string {
	return "trades"
}

func (t *Trade) BeforeCreate(tx *gorm.DB) error {
	ensureID(&t.ID)
	return nil
}
