// Package model defines the core data structures shared by the player.
//
// # Track
//
// Track is one playable audio file plus the name shown for it on screen:
//
//	track := model.NewTrack("/music/album/01 Intro.mp3")
//	fmt.Println(track.Name) // "01 Intro"
//
// Tracks are enumerated once when a playlist is built and never change
// afterwards, so they are passed around by value.
package model
