package models

type PowerSupply struct {
	Base
	Wattage          int    `json:"wattage" gorm:"not null" validate:"min=1"`
	FormFactor       string `json:"formFactor" gorm:"type:varchar(10);not null" validate:"required,oneof=ATX TFX SFX SFXL"`
	EfficiencyRating string `json:"efficiencyRating" gorm:"type:varchar(20);not null" validate:"required,oneof=80Plus 80PlusBronze 80PlusSilver 80PlusGold 80PlusPlatinum 80PlusTitanium"`
}

func (PowerSupply) TableName() string { return "power_supplies" }

var PowerSupplySchema = newSchema("PowerSupply", "powersupply",
	Field{Name: "wattage", Column: "wattage", Value: func(r Record) any { return r.(*PowerSupply).Wattage }},
	Field{Name: "formFactor", Column: "form_factor", Value: func(r Record) any { return r.(*PowerSupply).FormFactor }},
	Field{Name: "efficiencyRating", Column: "efficiency_rating", Value: func(r Record) any { return r.(*PowerSupply).EfficiencyRating }},
)
