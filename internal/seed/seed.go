// Package seed loads the demo hotels, room types and pricing rules.
package seed

import (
	"context"
	"fmt"

	"hotelPricing/domain"
	psqlRepo "hotelPricing/internal/repository/postgres"
	"hotelPricing/pkg/logger"

	"gorm.io/gorm"
)

type hotelFixture struct {
	hotel     domain.Hotel
	roomTypes []domain.RoomType
	rule      domain.PricingRule
}

func fixtures() []hotelFixture {
	return []hotelFixture{
		{
			hotel: domain.Hotel{Name: "Grand Hotel", City: "New York", Country: "USA", Currency: "USD", Timezone: "America/New_York", MonthlyFixedCosts: 85000, IsActive: true},
			roomTypes: []domain.RoomType{
				{Name: "Standard Room", Description: "Queen-size bed, up to 2 guests", BasePrice: 199, VariableCost: 45, InventoryCount: 40, MaxOccupancy: 2, IsActive: true},
				{Name: "Deluxe Room", Description: "King-size bed, up to 2 guests", BasePrice: 299, VariableCost: 65, InventoryCount: 30, MaxOccupancy: 2, IsActive: true},
				{Name: "Executive Suite", Description: "King-size bed and separate living area", BasePrice: 499, VariableCost: 95, InventoryCount: 15, MaxOccupancy: 3, IsActive: true},
			},
			rule: domain.PricingRule{Name: "Standard Dynamic Pricing", Description: "Moderate price flexibility", MinPriceMultiplier: 0.6, MaxPriceMultiplier: 1.8, LowDemandThreshold: 0.4, HighDemandThreshold: 0.8, IsActive: true},
		},
		{
			hotel: domain.Hotel{Name: "City Center Hotel", City: "Chicago", Country: "USA", Currency: "USD", Timezone: "America/Chicago", MonthlyFixedCosts: 65000, IsActive: true},
			roomTypes: []domain.RoomType{
				{Name: "Standard Room", Description: "Queen-size bed", BasePrice: 149, VariableCost: 35, InventoryCount: 50, MaxOccupancy: 2, IsActive: true},
				{Name: "Deluxe Room", Description: "King-size bed", BasePrice: 229, VariableCost: 55, InventoryCount: 35, MaxOccupancy: 2, IsActive: true},
			},
			rule: domain.PricingRule{Name: "Aggressive Dynamic Pricing", Description: "Higher price flexibility", MinPriceMultiplier: 0.5, MaxPriceMultiplier: 2.0, LowDemandThreshold: 0.3, HighDemandThreshold: 0.7, IsActive: true},
		},
		{
			hotel: domain.Hotel{Name: "Business Hotel", City: "San Francisco", Country: "USA", Currency: "USD", Timezone: "America/Los_Angeles", MonthlyFixedCosts: 75000, IsActive: true},
			roomTypes: []domain.RoomType{
				{Name: "Standard Room", Description: "Queen-size bed and work desk", BasePrice: 169, VariableCost: 40, InventoryCount: 45, MaxOccupancy: 2, IsActive: true},
				{Name: "Executive Room", Description: "King-size bed and large work area", BasePrice: 249, VariableCost: 60, InventoryCount: 30, MaxOccupancy: 2, IsActive: true},
			},
			rule: domain.PricingRule{Name: "Conservative Dynamic Pricing", Description: "Lower price flexibility", MinPriceMultiplier: 0.7, MaxPriceMultiplier: 1.5, LowDemandThreshold: 0.5, HighDemandThreshold: 0.8, IsActive: true},
		},
	}
}

type Summary struct {
	Hotels    int
	RoomTypes int
	Rules     int
	Skipped   bool
}

// Run inserts the demo data in one transaction. It does nothing when any hotel
// already exists.
func Run(ctx context.Context, db *gorm.DB) (Summary, error) {
	var sum Summary

	existing, err := psqlRepo.NewHotelRepository(db).FindHotels(ctx)
	if err != nil {
		return sum, err
	}
	if len(existing) > 0 {
		logger.Info("seed_skipped", "hotels", len(existing))
		sum.Skipped = true
		return sum, nil
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		hotels := psqlRepo.NewHotelRepository(tx)
		roomTypes := psqlRepo.NewRoomTypeRepository(tx)
		rules := psqlRepo.NewPricingRuleRepository(tx)

		for _, f := range fixtures() {
			hotel := f.hotel
			if err := hotels.CreateHotel(ctx, &hotel); err != nil {
				return err
			}
			sum.Hotels++

			for _, rt := range f.roomTypes {
				rt.HotelID = hotel.ID
				if err := roomTypes.CreateRoomType(ctx, &rt); err != nil {
					return err
				}
				sum.RoomTypes++
			}

			rule := f.rule
			rule.HotelID = hotel.ID
			if err := rule.Validate(); err != nil {
				return fmt.Errorf("seed rule %q: %w", rule.Name, err)
			}
			if err := rules.Create(ctx, &rule); err != nil {
				return err
			}
			sum.Rules++
		}
		return nil
	})
	if err != nil {
		return Summary{}, fmt.Errorf("seed failed: %w", err)
	}

	logger.Info("seed_completed", "hotels", sum.Hotels, "room_types", sum.RoomTypes, "rules", sum.Rules)
	return sum, nil
}
