package models

// RAM is a memory kit.
type RAM struct {
	Base
	Capacity int    `json:"capacity" gorm:"not null" validate:"min=1"` // GB
	Type     string `json:"type" gorm:"column:ram_type;type:varchar(10);not null" validate:"required,oneof=DDR3 DDR4 DDR5"`
	Speed    int    `json:"speed" gorm:"not null" validate:"min=1"` // MHz
}

func (RAM) TableName() string { return "rams" }

var RAMSchema = newSchema("RAM", "ram",
	Field{Name: "capacity", Column: "capacity", Value: func(r Record) any { return r.(*RAM).Capacity }},
	Field{Name: "type", Column: "ram_type", Value: func(r Record) any { return r.(*RAM).Type }},
	Field{Name: "speed", Column: "speed", Value: func(r Record) any { return r.(*RAM).Speed }},
)
