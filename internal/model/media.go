// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "strings"

// MediaType distinguishes still images from video in hero, gallery and carousel entries.
type MediaType string

// Supported media types
const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// Supported MIME types
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
	MimeTypeMP4  = "video/mp4"
	MimeTypeWebM = "video/webm"
	MimeTypeMOV  = "video/quicktime"
)

// IsValid reports whether t is one of the known media types.
func (t MediaType) IsValid() bool {
	return t == MediaTypeImage || t == MediaTypeVideo
}

// MediaTypeFromContentType classifies an uploaded file by its MIME type.
// Anything that is not video/* is treated as an image.
func MediaTypeFromContentType(contentType string) MediaType {
	if strings.HasPrefix(strings.ToLower(contentType), "video") {
		return MediaTypeVideo
	}
	return MediaTypeImage
}
