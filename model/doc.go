// Package model holds the geometry types shared by both layout codecs:
// integer points on the database-unit grid, relative deltas, bounding
// boxes, and the rectangle-classification helper the converter relies on.
package model
