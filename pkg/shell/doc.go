/*
Package shell is the interactive core of retrodesk.

It owns the desktop icons, the window manager and the audio session, and
offers the commands the menu bar and the desktop issue: open an icon, open
the selected icon, close the front window, create and rename folders. A
ClickPolicy decides which presses are clicks on controls.

Every mutation goes through a Loop so the core has a single writer:

	loop := shell.NewLoop(shell.New(shell.Config{}), logger)
	go loop.Serve(ctx)
	err := loop.Do(ctx, func(s *shell.Shell) error {
		s.DoubleClick("paint", "Paint")
		return nil
	})
*/
package shell
