//go:generate go run github.com/abice/go-enum --file=$GOFILE --names --nocase

package domain

// TriggerReason explains why a message was forwarded
// ENUM(mention,dm,channel_trigger)
type TriggerReason string

// Action is the outcome of a routing decision
// ENUM(ignore,skip,forward,misconfigured)
type Action string
