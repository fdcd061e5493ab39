package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// Image is one uploaded photo on a listing. Filename is the key the image
// store uses for deletion and is unique across the store.
type Image struct {
	URL      string `bson:"url" json:"url"`
	Filename string `bson:"filename" json:"filename"`
}

// Geometry is a GeoJSON point, coordinates ordered [longitude, latitude].
type Geometry struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

// Listing is a published campground. Author is set once at creation and
// never changes; Reviews holds the ids of the reviews attached to it.
type Listing struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Location    string               `bson:"location" json:"location"`
	Geometry    Geometry             `bson:"geometry" json:"geometry"`
	Price       float64              `bson:"price" json:"price"`
	Author      primitive.ObjectID   `bson:"author" json:"author"`
	Images      []Image              `bson:"images" json:"images"`
	Reviews     []primitive.ObjectID `bson:"reviews" json:"reviews"`
}
