package models

// Enumerated values accepted by the category validators. The validate tags on
// the category structs list the same values.
const (
	MotherboardExtendedATX = "ExtendedATX"
	MotherboardATX         = "ATX"
	MotherboardMicroATX    = "MicroATX"
	MotherboardMiniITX     = "MiniITX"

	PowerSupplyATX  = "ATX"
	PowerSupplyTFX  = "TFX"
	PowerSupplySFX  = "SFX"
	PowerSupplySFXL = "SFXL"

	Efficiency80Plus         = "80Plus"
	Efficiency80PlusBronze   = "80PlusBronze"
	Efficiency80PlusSilver   = "80PlusSilver"
	Efficiency80PlusGold     = "80PlusGold"
	Efficiency80PlusPlatinum = "80PlusPlatinum"
	Efficiency80PlusTitanium = "80PlusTitanium"

	RAMDDR3 = "DDR3"
	RAMDDR4 = "DDR4"
	RAMDDR5 = "DDR5"

	StorageHDD  = "HDD"
	StorageSSD  = "SSD"
	StorageNVMe = "NVMe"

	InterfaceSATA = "SATA"
	InterfaceSAS  = "SAS"
	InterfacePCIe = "PCIe"
	InterfaceM2   = "M2"
	InterfaceUSB  = "USB"
)
