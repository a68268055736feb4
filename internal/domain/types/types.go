package types

// VehicleClass is the commercial class a ride is priced against.
type VehicleClass string

const (
	VehicleAuto       VehicleClass = "auto"
	VehicleMotorcycle VehicleClass = "motorcycle"
	VehicleCar        VehicleClass = "car"
)

func (c VehicleClass) String() string { return string(c) }

// VehicleClasses lists every supported class.
var VehicleClasses = []VehicleClass{VehicleAuto, VehicleMotorcycle, VehicleCar}

// PaymentMode is an opaque label; payment capture happens elsewhere.
type PaymentMode string

const (
	PaymentCash      PaymentMode = "cash"
	PaymentUPI       PaymentMode = "upi"
	PaymentDebitCard PaymentMode = "debit-card"
)

// RideStatus moves pending -> accepted -> ongoing -> completed, with a
// side exit to cancelled from pending or accepted.
type RideStatus string

const (
	RidePending   RideStatus = "pending"
	RideAccepted  RideStatus = "accepted"
	RideOngoing   RideStatus = "ongoing"
	RideCompleted RideStatus = "completed"
	RideCancelled RideStatus = "cancelled"
)

func (s RideStatus) String() string { return string(s) }

// DriverStatus is the driver's operational state, independent of whether a
// live connection exists.
type DriverStatus string

const (
	DriverActive   DriverStatus = "active"
	DriverInactive DriverStatus = "inactive"
)

// Role identifies which party an authenticated request acts as.
type Role string

const (
	RoleRider  Role = "rider"
	RoleDriver Role = "driver"
)

func (r Role) String() string { return string(r) }
