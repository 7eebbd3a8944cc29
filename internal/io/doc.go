// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - Writing uniquely named temporary files
//   - Best-effort file removal
//   - Directory creation
//   - Image downscaling for cover art
//
// # File Operations
//
//	// Write artwork bytes to a fresh temp file
//	path, err := ioutils.WriteTempFile("flare_art_", ".jpg", data)
//
//	// Remove it again, ignoring "not found"
//	err = ioutils.RemoveIfExists(path)
//
// # Image Processing
//
// The ImageService shrinks oversized cover art before it is handed to the
// terminal image renderer:
//
//	svc := ioutils.NewImageService()
//	small, resized, err := svc.Fit(ctx, imageData, 600)
package ioutils
