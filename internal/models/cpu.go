package models

// CPU is a processor.
type CPU struct {
	Base
	Socket     string  `json:"socket" gorm:"type:varchar(50);not null" validate:"required,max=50"`
	Cores      int     `json:"cores" gorm:"not null" validate:"min=1"`
	Threads    int     `json:"threads" gorm:"not null" validate:"min=1"`
	ClockSpeed float64 `json:"clockSpeed" gorm:"not null" validate:"gt=0"` // GHz
}

func (CPU) TableName() string { return "cpus" }

var CPUSchema = newSchema("CPU", "cpu",
	Field{Name: "socket", Column: "socket", Value: func(r Record) any { return r.(*CPU).Socket }},
	Field{Name: "cores", Column: "cores", Value: func(r Record) any { return r.(*CPU).Cores }},
	Field{Name: "threads", Column: "threads", Value: func(r Record) any { return r.(*CPU).Threads }},
	Field{Name: "clockSpeed", Column: "clock_speed", Value: func(r Record) any { return r.(*CPU).ClockSpeed }},
)
