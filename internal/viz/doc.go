// Package viz draws the modulation visualization in a terminal.
//
//   - [Canvas]: braille pixel canvas, 2x4 dots per cell, with per-cell
//     colors
//   - [Rasterize]: scales scene commands onto a Canvas
//   - [Theme]: lipgloss colors for the control surface chrome
//
// Glows and translucent fills become outlines, since a braille cell can
// only be on or off.
package viz
