// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data types shared between the extraction,
// segmentation, rendering and presentation stages.
package types

// ConversionStatus indicates the outcome of converting one document.
type ConversionStatus string

const (
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Document is an uploaded file: its raw bytes and the name it was supplied
// under. Name is only used to derive the output filename.
type Document struct {
	Name string `json:"name" yaml:"name"`
	Data []byte `json:"-" yaml:"-"`
}

// Record is one numbered item extracted from a document.
// Topics are not unique; duplicates are kept in source order.
type Record struct {
	// Topic is the text following the leading "N." marker, trimmed.
	Topic string `json:"topic" yaml:"topic"`

	// Description is the space-joined content lines that follow the marker.
	Description string `json:"description" yaml:"description"`
}
