// internal/domain/models/catch.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Location is where a catch was landed.
type Location struct {
	Latitude  float64 `bson:"latitude" json:"latitude"`
	Longitude float64 `bson:"longitude" json:"longitude"`
	Address   string  `bson:"address,omitempty" json:"address,omitempty"`
}

// Weather is the optional conditions snapshot recorded with a catch.
type Weather struct {
	Temperature float64 `bson:"temperature" json:"temperature"`
	Condition   string  `bson:"condition,omitempty" json:"condition,omitempty"`
	WindSpeed   float64 `bson:"windSpeed" json:"windSpeed"`
}

// Catch is one logbook entry. UserID is set at creation and never changes.
type Catch struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FishType string             `bson:"fishType" json:"fishType"`
	Quantity float64            `bson:"quantity" json:"quantity"`
	Weight   float64            `bson:"weight" json:"weight"`
	Location Location           `bson:"location" json:"location"`
	Date     time.Time          `bson:"date" json:"date"`
	Time     string             `bson:"time" json:"time"` // client-supplied time of day
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	UserName string             `bson:"userName" json:"userName"`
	Notes    string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Weather  *Weather           `bson:"weather,omitempty" json:"weather,omitempty"`
	Verified bool               `bson:"verified" json:"verified"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// CatchStats is an aggregate over a set of catches.
type CatchStats struct {
	TotalCatches  int64   `bson:"totalCatches" json:"totalCatches"`
	TotalQuantity float64 `bson:"totalQuantity" json:"totalQuantity"`
	TotalWeight   float64 `bson:"totalWeight" json:"totalWeight"`
	AvgQuantity   float64 `bson:"avgQuantity" json:"avgQuantity"`
	AvgWeight     float64 `bson:"avgWeight" json:"avgWeight"`
}
