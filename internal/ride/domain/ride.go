package domain

import "time"

// Collections and field names as stored in Firestore.
const (
	RidesCollection        = "rides"
	RideRequestsCollection = "ride_requests"

	RidesArchiveCollection        = "rides_archive"
	RideRequestsArchiveCollection = "ride_requests_archive"

	FieldRideDate    = "rideDate"
	FieldRequestDate = "requestDate"
	FieldStatus      = "status"
	FieldRiderID     = "riderId"
	FieldDriverID    = "driverId"

	FieldRequestDriverUID = "driverUid"
	FieldRequestRiderUID  = "riderUid"
	FieldRequestRiderName = "riderName"
	FieldRequestMessage   = "message"
	FieldRequestRideID    = "rideId"
)

// RideStatus represents where a ride is in its lifecycle
type RideStatus string

const (
	RideStatusRequested RideStatus = "requested"
	RideStatusAccepted  RideStatus = "accepted"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// Ride is a scheduled trip offered by a driver
type Ride struct {
	ID       string     `json:"id" firestore:"-"`
	Status   RideStatus `json:"status" firestore:"status"`
	RideDate time.Time  `json:"ride_date" firestore:"rideDate"`
	RiderID  string     `json:"rider_id" firestore:"riderId"`
	DriverID string     `json:"driver_id" firestore:"driverId"`
}

// RideRequest is a rider asking a driver for a seat on a ride
type RideRequest struct {
	ID          string    `json:"id" firestore:"-"`
	DriverUID   string    `json:"driver_uid" firestore:"driverUid"`
	RiderUID    string    `json:"rider_uid" firestore:"riderUid"`
	RiderName   string    `json:"rider_name,omitempty" firestore:"riderName"`
	Message     string    `json:"message,omitempty" firestore:"message"`
	RideID      string    `json:"ride_id" firestore:"rideId"`
	RequestDate time.Time `json:"request_date" firestore:"requestDate"`
}
