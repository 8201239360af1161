package models

// GPU is a graphics card.
type GPU struct {
	Base
	VRAM      int    `json:"vram" gorm:"column:vram;not null" validate:"gte=0"` // GB
	Chipset   string `json:"chipset" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	CoreClock int    `json:"coreClock" gorm:"not null" validate:"gte=0"` // MHz
}

func (GPU) TableName() string { return "gpus" }

var GPUSchema = newSchema("GPU", "gpu",
	Field{Name: "vram", Column: "vram", Value: func(r Record) any { return r.(*GPU).VRAM }},
	Field{Name: "chipset", Column: "chipset", Value: func(r Record) any { return r.(*GPU).Chipset }},
	Field{Name: "coreClock", Column: "core_clock", Value: func(r Record) any { return r.(*GPU).CoreClock }},
)
