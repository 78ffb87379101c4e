// Package viz provides visualization surfaces for the render loop.
//
// Every surface implements [dynamo.Surface]:
//
//   - [Screen]: full-terminal Braille canvas drawn with tcell
//   - [TUISurface]: Bubble Tea view with a stats panel, an energy bar and a
//     position trace
//   - [Recorder]: headless surface active for a fixed number of frames
//
// [Screen] and [TUISurface] also implement [dynamo.Observer] so the loop can
// feed them the latest sample for their status displays.
//
// [PatternScreen] is a separate tcell demo that paints the color pattern
// from package pattern.
//
// # Key Bindings
//
//	q, Esc, Ctrl+C - close the surface (stops the loop)
package viz
