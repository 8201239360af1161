package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"hwcatalog/internal/app"
	"hwcatalog/internal/models"
	"hwcatalog/internal/services"
)

// seedProducts adds sample products to every category that is still empty.
// Categories that already hold products are left alone.
func seedProducts(ctx context.Context, svcs app.Services, log *slog.Logger) error {
	steps := []func() error{
		func() error { return seedCategory(ctx, svcs.CPU, sampleCPUs(), log) },
		func() error { return seedCategory(ctx, svcs.GPU, sampleGPUs(), log) },
		func() error { return seedCategory(ctx, svcs.Motherboard, sampleMotherboards(), log) },
		func() error { return seedCategory(ctx, svcs.RAM, sampleRAM(), log) },
		func() error { return seedCategory(ctx, svcs.StorageDevice, sampleStorage(), log) },
		func() error { return seedCategory(ctx, svcs.PowerSupply, samplePowerSupplies(), log) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func seedCategory[T any, P models.RecordPtr[T]](ctx context.Context, svc *services.ProductService[T, P], samples []T, log *slog.Logger) error {
	category := svc.Schema().Name

	existing, err := svc.All(ctx)
	if err != nil {
		return fmt.Errorf("seed %s: %w", category, err)
	}
	if len(existing) > 0 {
		log.Info("category already seeded", "category", category, "count", len(existing))
		return nil
	}

	for i := range samples {
		if _, err := svc.Create(ctx, &samples[i]); err != nil {
			return fmt.Errorf("seed %s %q: %w", category, P(&samples[i]).Meta().Name, err)
		}
	}
	log.Info("seeded category", "category", category, "count", len(samples))
	return nil
}

func base(name, brand, price, short, description string, stock int) models.Base {
	return models.Base{
		Name:             name,
		Brand:            brand,
		Price:            decimal.RequireFromString(price),
		ShortDescription: short,
		Description:      description,
		Available:        stock > 0,
		StockAmount:      stock,
	}
}

func sampleCPUs() []models.CPU {
	return []models.CPU{
		{
			Base:   base("Ryzen 7 7800X3D", "AMD", "449.00", "8-core gaming CPU", "Zen 4 desktop processor with 3D V-Cache.", 25),
			Socket: "AM5", Cores: 8, Threads: 16, ClockSpeed: 4.2,
		},
		{
			Base:   base("Core i5-14600K", "Intel", "319.99", "14-core desktop CPU", "Raptor Lake Refresh unlocked processor.", 40),
			Socket: "LGA1700", Cores: 14, Threads: 20, ClockSpeed: 3.5,
		},
	}
}

func sampleGPUs() []models.GPU {
	return []models.GPU{
		{
			Base: base("GeForce RTX 4070 Super", "NVIDIA", "599.00", "12 GB graphics card", "Ada Lovelace graphics card for 1440p gaming.", 12),
			VRAM: 12, Chipset: "AD104", CoreClock: 1980,
		},
		{
			Base: base("Radeon RX 7800 XT", "AMD", "499.99", "16 GB graphics card", "RDNA 3 graphics card with 16 GB of GDDR6.", 9),
			VRAM: 16, Chipset: "Navi 32", CoreClock: 2124,
		},
	}
}

func sampleMotherboards() []models.Motherboard {
	return []models.Motherboard{
		{
			Base:   base("B650 Tomahawk WiFi", "MSI", "219.99", "AM5 ATX board", "AM5 motherboard with PCIe 5.0 M.2 and WiFi 6E.", 15),
			Socket: "AM5", FormFactor: models.MotherboardATX, MaxMemory: 192,
		},
		{
			Base:   base("Z790-I Strix", "ASUS", "379.00", "LGA1700 Mini-ITX board", "Compact Z790 motherboard for small form factor builds.", 4),
			Socket: "LGA1700", FormFactor: models.MotherboardMiniITX, MaxMemory: 96,
		},
	}
}

func sampleRAM() []models.RAM {
	return []models.RAM{
		{
			Base:     base("Vengeance 32GB", "Corsair", "109.99", "2x16 GB DDR5 kit", "DDR5 memory kit tuned for AMD EXPO.", 50),
			Capacity: 32, Type: models.RAMDDR5, Speed: 6000,
		},
		{
			Base:     base("Fury Beast 16GB", "Kingston", "42.50", "2x8 GB DDR4 kit", "DDR4 memory kit with XMP profile.", 70),
			Capacity: 16, Type: models.RAMDDR4, Speed: 3200,
		},
	}
}

func sampleStorage() []models.StorageDevice {
	return []models.StorageDevice{
		{
			Base: base("990 Pro 2TB", "Samsung", "169.99", "PCIe 4.0 NVMe SSD", "NVMe drive with up to 7450 MB/s sequential reads.", 30),
			Type: models.StorageNVMe, Capacity: 2000, Interface: models.InterfaceM2,
		},
		{
			Base: base("IronWolf 8TB", "Seagate", "189.00", "NAS hard drive", "7200 RPM hard drive rated for NAS workloads.", 0),
			Type: models.StorageHDD, Capacity: 8000, Interface: models.InterfaceSATA,
		},
	}
}

func samplePowerSupplies() []models.PowerSupply {
	return []models.PowerSupply{
		{
			Base:    base("RM850x", "Corsair", "139.99", "850 W modular PSU", "Fully modular ATX power supply.", 20),
			Wattage: 850, FormFactor: models.PowerSupplyATX, EfficiencyRating: models.Efficiency80PlusGold,
		},
		{
			Base:    base("SF750", "Corsair", "184.99", "750 W SFX PSU", "Compact SFX power supply for small builds.", 6),
			Wattage: 750, FormFactor: models.PowerSupplySFX, EfficiencyRating: models.Efficiency80PlusPlatinum,
		},
	}
}
