package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID returns a fresh 24-hex-character object identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
