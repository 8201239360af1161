package models

// StorageDevice is a drive: spinning disk, SATA SSD or NVMe.
type StorageDevice struct {
	Base
	Type      string `json:"type" gorm:"column:device_type;type:varchar(10);not null" validate:"required,oneof=HDD SSD NVMe"`
	Capacity  int    `json:"capacity" gorm:"not null" validate:"min=1"` // GB
	Interface string `json:"interface" gorm:"column:interface_type;type:varchar(10);not null" validate:"required,oneof=SATA SAS PCIe M2 USB"`
}

func (StorageDevice) TableName() string { return "storage_devices" }

var StorageDeviceSchema = newSchema("StorageDevice", "storagedevice",
	Field{Name: "type", Column: "device_type", Value: func(r Record) any { return r.(*StorageDevice).Type }},
	Field{Name: "capacity", Column: "capacity", Value: func(r Record) any { return r.(*StorageDevice).Capacity }},
	Field{Name: "interface", Column: "interface_type", Value: func(r Record) any { return r.(*StorageDevice).Interface }},
)
