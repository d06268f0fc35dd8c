package quote

import "time"

// CargoType classifies the cargo carried on the voyage
type CargoType string

const (
	CargoTypeContainer CargoType = "CONTAINER"
	CargoTypeBulk      CargoType = "BULK"
	CargoTypeLiquid    CargoType = "LIQUID"
	CargoTypeBreakbulk CargoType = "BREAKBULK"
)

// VesselType classifies the vessel requested for the voyage
type VesselType string

const (
	VesselTypeContainerShip VesselType = "CONTAINER_SHIP"
	VesselTypeBulkCarrier   VesselType = "BULK_CARRIER"
	VesselTypeTanker        VesselType = "TANKER"
	VesselTypeCargo         VesselType = "CARGO"
)

// Port identifies a port by its UN/LOCODE-style code and display name
type Port struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// VoyageData describes the shipping voyage a quote is requested for.
// It is a pure value object: embedded in the quote request at creation
// and immutable afterwards.
type VoyageData struct {
	DeparturePort   Port       `json:"departurePort" validate:"required"`
	DestinationPort Port       `json:"destinationPort" validate:"required"`
	CargoType       CargoType  `json:"cargoType" validate:"required,oneof=CONTAINER BULK LIQUID BREAKBULK"`
	CargoWeight     float64    `json:"cargoWeight" validate:"required,gt=0"`
	VesselType      VesselType `json:"vesselType" validate:"required,oneof=CONTAINER_SHIP BULK_CARRIER TANKER CARGO"`
	DepartureDate   time.Time  `json:"departureDate" validate:"required"`
}
