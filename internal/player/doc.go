// Package player implements the playback state machine.
//
// Engine wraps an audio Backend and exposes transport controls. It reports
// progress on a single event channel instead of callbacks:
//
//	engine := player.NewEngine(backend, player.Options{Volume: 50})
//	if err := engine.LoadTrack(track); err != nil {
//	    // engine is Idle, nothing plays
//	}
//	engine.Play()
//
//	for ev := range engine.Events() {
//	    switch ev.Kind {
//	    case player.EventTick:
//	        // redraw the duration bar from ev.Snapshot
//	    case player.EventTrackEnded:
//	        // advance the playlist, once per ev.Snapshot.Generation
//	    }
//	}
//
// State transitions:
//
//	Idle --LoadTrack--> Loaded --Play--> Playing <--Pause--> Paused
//	Playing/Paused --Stop--> Stopped --LoadTrack--> Loaded
//	Stopped --Play--> Playing (from the start of the track)
package player
