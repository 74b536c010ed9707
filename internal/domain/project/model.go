// Package project defines survey project entities and services.
package project

import "time"

// Project represents a point cloud survey project.
type Project struct {
	ID          string     `json:"id"`
	Name        string     `json:"name,omitempty"`
	Client      string     `json:"client,omitempty"`
	Description string     `json:"description,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
	CRS         CRS        `json:"crs"`
	Location    Location   `json:"location"`
	PointCount  int64      `json:"point_count,omitempty"`
	CloudURL    string     `json:"cloud,omitempty"`     // Presigned URL for the converted octree
	Thumbnail   string     `json:"thumbnail,omitempty"` // Presigned URL for the preview image
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CRS describes the coordinate reference system of a project's point clouds.
type CRS struct {
	ID    string `json:"id"`    // EPSG code, e.g. "26916"
	Name  string `json:"name"`  // Human readable, e.g. "NAD83 / UTM zone 16N"
	Proj4 string `json:"proj4"` // Proj4 string passed to the converter
}

// Location is the WGS84 center of the project's point cloud.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	Z   float64 `json:"z"`
}

// Update describes a partial metadata update. Nil fields are left unchanged.
type Update struct {
	Name        *string
	Client      *string
	Description *string
	Date        *time.Time
	Tags        []string
}
