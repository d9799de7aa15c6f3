/*
Package tilefab implements the document model of a tile-graphics authoring
tool for retro-console game assets: palettes, CHR tile banks, per-level tile
canvases with a coarser collision canvas, and placeable typed objects.

Every edit flows through the undo command system: applying a command to a
Project mutates the document and returns the exact inverse command, which the
bounded two-stack history records. Rendering-oriented state (per-tile bitmaps,
collision mask slices) is derived on demand through the chr package and never
persisted; the binary project format in file.go is the interoperability
contract.
*/
package tilefab
