package models

type Motherboard struct {
	Base
	Socket     string `json:"socket" gorm:"type:varchar(50);not null" validate:"required,max=50"`
	FormFactor string `json:"formFactor" gorm:"type:varchar(20);not null" validate:"required,oneof=ExtendedATX ATX MicroATX MiniITX"`
	MaxMemory  int    `json:"maxMemory" gorm:"not null" validate:"min=1"` // GB
}

func (Motherboard) TableName() string { return "motherboards" }

var MotherboardSchema = newSchema("Motherboard", "motherboard",
	Field{Name: "socket", Column: "socket", Value: func(r Record) any { return r.(*Motherboard).Socket }},
	Field{Name: "formFactor", Column: "form_factor", Value: func(r Record) any { return r.(*Motherboard).FormFactor }},
	Field{Name: "maxMemory", Column: "max_memory", Value: func(r Record) any { return r.(*Motherboard).MaxMemory }},
)
