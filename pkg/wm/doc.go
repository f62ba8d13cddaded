/*
Package wm provides window management for the retrodesk desktop.

The Manager keeps the open windows in a strict stacking order, remembers
minimized windows with their full state, and runs per-kind hooks on close:

  - paint windows leave a snapshot that the next paint window starts from
  - folder windows clear the selection on their desktop icon
  - the audio window stops playback

Example usage:

	manager := wm.NewManager(wm.Config{ScreenWidth: 1440, ScreenHeight: 900})
	id := manager.OpenOrFocus("paint", "Paint")
	manager.Move(id, 40, 40)
	manager.Minimize(id)
	manager.OpenOrFocus("paint", "Paint") // restores the same window
*/
package wm
