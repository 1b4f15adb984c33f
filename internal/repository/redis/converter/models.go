package converter

import "github.com/DRSN-tech/supply-registry/pkg/opt"

type ProductRedisModel struct {
	ID              uint64             `json:"id"`
	Status          string             `json:"status"`
	Name            string             `json:"name"`
	Origin          string             `json:"origin"`
	CurrentLocation string             `json:"current_location"`
	Certification   opt.Option[string] `json:"certification"`
	IoTData         opt.Option[string] `json:"iot_data"`
	Timestamp       uint64             `json:"timestamp"`
	LastUpdate      opt.Option[uint64] `json:"last_update"`
}
