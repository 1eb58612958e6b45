package domain

import "time"

// CREATE TABLE public.room_pricing (
//     id                   BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     room_type_id         BIGINT NOT NULL REFERENCES room_types(id),
//     date                 DATE NOT NULL,
//     suggested_price      NUMERIC(12,2) NOT NULL,
//     final_price          NUMERIC(12,2) NOT NULL,
//     is_override          BOOLEAN NOT NULL DEFAULT FALSE,
//     override_notes       TEXT,
//     forecasted_demand    DOUBLE PRECISION,
//     forecasted_occupancy DOUBLE PRECISION,
//     UNIQUE (room_type_id, date)
// );

type RoomPricing struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomTypeID          uint      `gorm:"column:room_type_id;not null;uniqueIndex:idx_room_pricing_room_type_date" json:"room_type_id"`
	Date                Date      `gorm:"column:date;not null;uniqueIndex:idx_room_pricing_room_type_date" json:"date"`
	SuggestedPrice      float64   `gorm:"column:suggested_price;not null" json:"suggested_price"`
	FinalPrice          float64   `gorm:"column:final_price;not null" json:"final_price"`
	IsOverride          bool      `gorm:"column:is_override;not null;default:false" json:"is_override"`
	OverrideNotes       string    `gorm:"column:override_notes;type:text" json:"override_notes,omitempty"`
	ForecastedDemand    float64   `gorm:"column:forecasted_demand" json:"forecasted_demand"`
	ForecastedOccupancy float64   `gorm:"column:forecasted_occupancy" json:"forecasted_occupancy"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (RoomPricing) TableName() string {
	return "room_pricing"
}

// Decision returns the stored final price as a tagged decision.
func (p RoomPricing) Decision() PriceDecision {
	if p.IsOverride {
		return Overridden{Price: p.FinalPrice, Notes: p.OverrideNotes}
	}
	return Suggested{Price: p.FinalPrice}
}

// SetDecision writes d into the flat columns of the row.
func (p *RoomPricing) SetDecision(d PriceDecision) {
	switch v := d.(type) {
	case Overridden:
		p.FinalPrice = v.Price
		p.IsOverride = true
		p.OverrideNotes = v.Notes
	case Suggested:
		p.FinalPrice = v.Price
		p.IsOverride = false
		p.OverrideNotes = ""
	}
}

// PriceDecision is either Suggested or Overridden. The set is closed.
type PriceDecision interface {
	FinalPrice() float64
	isPriceDecision()
}

// Suggested is a final price computed by the pricing curve.
type Suggested struct {
	Price float64
}

func (s Suggested) FinalPrice() float64 { return s.Price }
func (Suggested) isPriceDecision() {}

// Overridden is a manually fixed final price. It is authoritative and skips the
// contribution-margin floor.
type Overridden struct {
	Price float64
	Notes string
}

func (o Overridden) FinalPrice() float64 { return o.Price }
func (Overridden) isPriceDecision() {}

// OverrideSummary is returned after an override is applied or cleared.
type OverrideSummary struct {
	RoomTypeID     uint    `json:"room_type_id"`
	RoomTypeName   string  `json:"room_type_name"`
	Date           Date    `json:"date"`
	SuggestedPrice float64 `json:"suggested_price"`
	FinalPrice     float64 `json:"final_price"`
	IsOverride     bool    `json:"is_override"`
	OverrideNotes  string  `json:"override_notes,omitempty"`
}
