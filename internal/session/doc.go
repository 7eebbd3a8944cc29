// Package session runs the player screen.
//
// A Session owns the playlist, the playback engine, the thumbnail viewer and
// the renderer. One loop goroutine polls keys, consumes engine events and
// redraws; the engine's ticker only ever talks to it through the event
// channel.
package session
